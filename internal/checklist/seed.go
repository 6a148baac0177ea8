package checklist

import (
	"context"
	"log/slog"

	"github.com/ayush/rv-checklist/backend/internal/models"
)

// Accounts is the slice of the credential store the seeder needs.
type Accounts interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, nu models.NewUser) (*models.User, error)
}

// AdminCredentials identify the account created by seeding.
type AdminCredentials struct {
	Email    string
	Password string
}

// SeedResult reports what a seeding run did.
type SeedResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	TemplatesCreated int    `json:"templatesCreated"`
	AdminCreated     bool   `json:"adminCreated"`
}

// Seeder installs the default templates and the admin account. Each part is
// best-effort: failures are logged and the run continues.
type Seeder struct {
	registry *Registry
	accounts Accounts
	admin    AdminCredentials
	log      *slog.Logger
}

func NewSeeder(registry *Registry, accounts Accounts, admin AdminCredentials, log *slog.Logger) *Seeder {
	return &Seeder{registry: registry, accounts: accounts, admin: admin, log: log}
}

// Seed runs both seeding steps.
func (s *Seeder) Seed(ctx context.Context) SeedResult {
	res := SeedResult{Success: true, Message: "Seed completed successfully"}
	res.TemplatesCreated = s.seedTemplates(ctx)
	res.AdminCreated = s.seedAdmin(ctx)
	return res
}

// seedTemplates creates the defaults only when no template exists yet.
func (s *Seeder) seedTemplates(ctx context.Context) int {
	n, err := s.registry.Count(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "seed: count templates", "err", err)
		return 0
	}
	if n > 0 {
		s.log.InfoContext(ctx, "seed: templates already present, skipping", "count", n)
		return 0
	}

	created := 0
	for _, def := range DefaultTemplates() {
		if _, err := s.registry.Create(ctx, def); err != nil {
			s.log.WarnContext(ctx, "seed: create template", "name", def.Name, "err", err)
			continue
		}
		created++
	}
	s.log.InfoContext(ctx, "seed: default templates created", "count", created)
	return created
}

func (s *Seeder) seedAdmin(ctx context.Context) bool {
	existing, err := s.accounts.FindByEmail(ctx, s.admin.Email)
	if err != nil {
		s.log.WarnContext(ctx, "seed: look up admin", "err", err)
		return false
	}
	if existing != nil {
		s.log.InfoContext(ctx, "seed: admin user already exists")
		return false
	}

	_, err = s.accounts.Create(ctx, models.NewUser{
		Email:     s.admin.Email,
		Password:  s.admin.Password,
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
	})
	if err != nil {
		s.log.WarnContext(ctx, "seed: create admin", "err", err)
		return false
	}
	s.log.InfoContext(ctx, "seed: admin user created", "email", s.admin.Email)
	return true
}

func items(pairs ...[2]string) []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(pairs))
	for i, p := range pairs {
		out[i] = models.ChecklistItem{Title: p[0], Description: p[1]}
	}
	return out
}

// DefaultTemplates returns the built-in RV checklists.
func DefaultTemplates() []TemplateDef {
	return []TemplateDef{
		{
			Name:        "90-Day Maintenance Checklist",
			Description: "Regular maintenance tasks to perform every 90 days",
			Type:        models.TypeMaintenance,
			IsDefault:   true,
			Items: items(
				[2]string{"Inspect and clean roof seams and seals", "Check for cracks, peeling, or damage to sealants around roof edges, vents, antennas, and other fixtures"},
				[2]string{"Test RV batteries", "Check fluid levels in batteries and clean terminals"},
				[2]string{"Inspect tire pressure and condition", "Check tire pressure when cold and inspect for signs of wear, cracking, or damage"},
				[2]string{"Test smoke, CO, and LP detectors", "Ensure all safety devices are functioning properly"},
				[2]string{"Check fire extinguisher", "Verify it is properly charged and accessible"},
				[2]string{"Inspect and clean air conditioner filters", "Remove and clean or replace filters as needed"},
				[2]string{"Flush and sanitize fresh water system", "Use approved RV water system sanitizer"},
				[2]string{"Inspect plumbing for leaks", "Check all connections, faucets, toilets, and exterior hookups"},
				[2]string{"Lubricate locks, hinges, and moving parts", "Apply silicone spray or appropriate lubricant"},
				[2]string{"Check all exterior lights and turn signals", "Replace any burned-out bulbs"},
			),
		},
		{
			Name:        "Pre-Departure Checklist",
			Description: "Tasks to complete before starting your RV trip",
			Type:        models.TypePreDeparture,
			IsDefault:   true,
			Items: items(
				[2]string{"Check tire pressure and condition", "Verify tires are properly inflated and in good condition"},
				[2]string{"Inspect engine fluid levels", "Check oil, coolant, brake fluid, power steering, and windshield washer fluid"},
				[2]string{"Test all lights", "Headlights, tail lights, brake lights, turn signals, and interior lights"},
				[2]string{"Check propane level and ensure valves are closed", "Propane should be turned off during travel"},
				[2]string{"Fill fresh water tank", "If needed for your trip"},
				[2]string{"Empty holding tanks", "Both black and grey water tanks should be emptied before departure"},
				[2]string{"Secure loose items inside", "Make sure everything is stowed properly or secured"},
				[2]string{"Check roof for clear vents and antennas", "Close roof vents and lower any antennas"},
				[2]string{"Confirm all windows and doors are locked", "Ensure everything is securely closed and latched"},
				[2]string{"Stock emergency supplies", "First aid kit, roadside emergency kit, and tool kit"},
			),
		},
		{
			Name:        "Departure Checklist",
			Description: "Final steps before hitting the road or leaving campsite",
			Type:        models.TypeDeparture,
			IsDefault:   true,
			Items: items(
				[2]string{"Disconnect shore power", "Unplug and properly store power cord"},
				[2]string{"Disconnect water hose", "Drain and store properly"},
				[2]string{"Disconnect and flush sewer hose", "Empty, clean, and store properly"},
				[2]string{"Retract awnings and slides", "Make sure they are fully retracted and locked"},
				[2]string{"Secure all external doors and compartments", "Check that all exterior compartments are closed and locked"},
				[2]string{"Remove wheel chocks", "After releasing parking brake"},
				[2]string{"Raise leveling jacks", "Ensure they are fully retracted"},
				[2]string{"Double-check tow connection", "Safety chains, breakaway cable, and lights"},
				[2]string{"Do a final walkaround", "Look for anything left behind or issues"},
				[2]string{"Check campsite for cleanliness", "Pick up any trash and ensure fire is completely out"},
			),
		},
	}
}
