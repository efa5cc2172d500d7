package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"stitchhub/internal/models"
	"stitchhub/internal/validation"

	"gorm.io/gorm"
)

// starterDesign is one entry of the curated gallery deck created on first
// seed so a fresh environment has something to browse.
type starterDesign struct {
	Username    string
	Title       string
	Category    string
	Prompt      string
	CodeSnippet string
	ImageSeed   string
	Gallery     int
}

// starterDeck mirrors the demo gallery shipped with the frontend. One entry
// per category so every filter chip has at least one hit.
var starterDeck = []starterDesign{
	{
		Username:  "pixel_artisan",
		Title:     "Retro Dashboard UI",
		Category:  "Dashboard",
		Prompt:    "A retro-futuristic dashboard interface with glowing green text on a dark CRT monitor background, scanlines visible, chunky 8-bit icons, high contrast, neo-brutalist layout with thick borders, data visualization charts in wireframe style, cyberpunk aesthetic.",
		ImageSeed: "retro",
		Gallery:   3,
		CodeSnippet: `<div class="dashboard-container">
  <nav class="sidebar">
    <ul>
      <li class="active"><a href="#">Overview</a></li>
      <li><a href="#">Analytics</a></li>
      <li><a href="#">Settings</a></li>
    </ul>
  </nav>
  <main class="content">
    <div class="card stat-card">
      <h3>Active Users</h3>
      <span class="value">12,345</span>
      <div class="chart-placeholder"></div>
    </div>
  </main>
</div>`,
	},
	{
		Username:  "neon_dreams",
		Title:     "Neon Mobile App",
		Category:  "Mobile App",
		Prompt:    "High-fidelity mobile app design for a music streaming service, dark mode with vibrant neon pink and blue accents, glassmorphism effects on cards, large bold typography, minimal navigation bar, album art with glowing drop shadows.",
		ImageSeed: "neon",
		Gallery:   3,
		CodeSnippet: `.glass-card {
  background: rgba(255, 255, 255, 0.1);
  backdrop-filter: blur(10px);
  border: 1px solid rgba(255, 255, 255, 0.2);
  border-radius: 16px;
  box-shadow: 0 4px 30px rgba(0, 0, 0, 0.1);
}`,
	},
	{
		Username:  "minimal_store",
		Title:     "E-commerce Hero",
		Category:  "E-commerce",
		Prompt:    "Clean and minimalist e-commerce website hero section for a luxury sneaker brand, large high-quality product image on the right, bold serif typography on the left, plenty of whitespace, 'Shop Now' button with a subtle hover animation, soft pastel background.",
		ImageSeed: "shop",
		Gallery:   2,
		CodeSnippet: `const HeroSection = () => (
  <section className="flex h-screen items-center justify-between px-20 bg-cream-50">
    <div className="space-y-6 max-w-xl">
      <h1 className="text-6xl font-serif leading-tight">
        Step Into <span className="italic">Future Comfort</span>
      </h1>
      <button className="px-8 py-4 bg-black text-white">Shop Collection</button>
    </div>
  </section>
);`,
	},
	{
		Username:  "dev_guru",
		Title:     "Developer Portfolio",
		Category:  "Portfolio",
		Prompt:    "Personal portfolio website for a full-stack developer, dark theme with code snippet background textures, monospaced typography, timeline component for work experience, skill badges with glow effects, contact form with floating labels.",
		ImageSeed: "developer",
		Gallery:   1,
		CodeSnippet: `const experiences = [
  {
    role: "Senior Frontend Engineer",
    company: "TechCorp",
    period: "2020 - Present",
  },
];

{experiences.map((exp, index) => (
  <TimelineItem key={index} data={exp} />
))}`,
	},
	{
		Username:  "crypto_king",
		Title:     "Crypto Wallet",
		Category:  "SaaS",
		Prompt:    "Modern cryptocurrency wallet web app interface, clean white background with bold black borders, colorful pill-shaped buttons for 'Send' and 'Receive', real-time graph with gradient fill, large balance display above the fold.",
		ImageSeed: "crypto",
		Gallery:   1,
	},
	{
		Username:  "task_master",
		Title:     "Task Manager",
		Category:  "Other",
		Prompt:    "Productivity dashboard for project management, Kanban board layout with drag-and-drop cards, soft shadows, rounded corners, pastel color coding for tags, user avatars overlapping, sidebar navigation with collapsible menus.",
		ImageSeed: "task",
		Gallery:   1,
		CodeSnippet: `function KanbanBoard({ tasks }) {
  const columns = ['todo', 'in-progress', 'done'];
  return (
    <div className="flex gap-4 h-full p-6 bg-gray-50">
      {columns.map(status => (
        <Column key={status} tasks={tasks.filter(t => t.status === status)} />
      ))}
    </div>
  );
}`,
	},
	{
		Username:  "launch_lab",
		Title:     "Startup Landing Page",
		Category:  "Landing Page",
		Prompt:    "Bold landing page for a developer tools startup, oversized display typography, bright gradient mesh background, floating product screenshot with browser chrome, social proof logo strip, single prominent call-to-action above the fold.",
		ImageSeed: "landing",
		Gallery:   2,
	},
	{
		Username:  "ink_and_grid",
		Title:     "Editorial Blog Layout",
		Category:  "Blog",
		Prompt:    "Editorial blog layout inspired by print magazines, two-column article grid, generous line height, pull quotes in oversized serif type, muted paper-like background, sticky table of contents on wide screens, subtle drop caps.",
		ImageSeed: "editorial",
		Gallery:   1,
	},
}

// Seed populates the database with demo data: the curated starter deck plus
// randomly generated users and designs on top.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d designs...", opts.NumUsers, opts.NumDesigns)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	deck, err := SeedStarterDeck(db, f)
	if err != nil {
		return fmt.Errorf("failed to seed starter deck: %w", err)
	}
	log.Printf("Starter deck: %d designs available", len(deck))

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created", len(users))

	if len(users) > 0 {
		n, err := createDesigns(f, users, opts.NumDesigns)
		if err != nil {
			return fmt.Errorf("failed to create designs: %w", err)
		}
		log.Printf("%d designs created", n)
	}

	log.Println("Database seeding completed")
	return nil
}

// SeedStarterDeck creates the fixed demo designs and their authors. It is
// idempotent: a deck entry whose title already exists is skipped.
func SeedStarterDeck(db *gorm.DB, f *Factory) ([]*models.Design, error) {
	designs := make([]*models.Design, 0, len(starterDeck))

	for i, entry := range starterDeck {
		if !f.opts.DryRun {
			var count int64
			if err := db.Model(&models.Design{}).Where("title = ?", entry.Title).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				continue
			}
		}

		author, err := starterAuthor(db, f, entry.Username)
		if err != nil {
			return nil, err
		}

		gallery := make(models.StringList, 0, entry.Gallery)
		gallery = append(gallery, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", entry.ImageSeed))
		for g := 1; g < entry.Gallery; g++ {
			gallery = append(gallery, fmt.Sprintf("https://picsum.photos/seed/%s%d/800/800", entry.ImageSeed, g+1))
		}

		design, err := f.CreateDesign(author, entry.Category, func(d *models.Design) {
			d.Title = entry.Title
			d.PromptContent = entry.Prompt
			d.CodeSnippet = entry.CodeSnippet
			d.ImageURL = gallery[0]
			d.ImageURLs = gallery
			// stable ordering: older entries sit later in the deck
			d.CreatedAt = time.Now().Add(-time.Duration(i+1) * 24 * time.Hour)
		})
		if err != nil {
			return nil, err
		}
		designs = append(designs, design)
	}

	return designs, nil
}

func starterAuthor(db *gorm.DB, f *Factory, username string) (*models.User, error) {
	if !f.opts.DryRun {
		var existing models.User
		err := db.Where("username = ?", username).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return f.CreateUser(func(u *models.User) {
		u.Username = username
		u.Email = fmt.Sprintf("%s@example.com", username)
		u.AvatarURL = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username)
	})
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func createDesigns(f *Factory, users []*models.User, count int) (int, error) {
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	designs := make([]*models.Design, 0, count)
	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		category := validation.Categories[r.Intn(len(validation.Categories))]
		designs = append(designs, f.BuildDesign(user, category))
	}

	if len(designs) == 0 {
		return 0, nil
	}
	if err := f.CreateDesignsBatch(designs); err != nil {
		return 0, err
	}
	return len(designs), nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE designs, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
