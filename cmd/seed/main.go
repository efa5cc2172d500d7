// Command main runs the database seeder for StitchHub.
package main

import (
	"flag"
	"log"

	"stitchhub/internal/config"
	"stitchhub/internal/database"
	"stitchhub/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of demo users to create")
	numDesigns := flag.Int("designs", 60, "Number of random designs to create")
	maxDays := flag.Int("max-days", 90, "Spread created_at over this many days")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d designs, clean=%v\n", *numUsers, *numDesigns, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumDesigns:  *numDesigns,
		MaxDays:     *maxDays,
		ShouldClean: *shouldClean,
	}
	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The gallery is now populated with demo data.")
	log.Println("All demo users have the password: password123")
}
