// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev contract (dev-contract-001) already exists.
package main

import (
	"context"
	"log"
	"time"

	"signoff-dashboard/backend/internal/config"
	contractdomain "signoff-dashboard/backend/internal/contract/domain"
	contractrepo "signoff-dashboard/backend/internal/contract/repository"
	"signoff-dashboard/backend/internal/db"
	directorydomain "signoff-dashboard/backend/internal/directory/domain"
	directoryrepo "signoff-dashboard/backend/internal/directory/repository"
	refdomain "signoff-dashboard/backend/internal/refdata/domain"
	refrepo "signoff-dashboard/backend/internal/refdata/repository"
	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
	signoffrepo "signoff-dashboard/backend/internal/signoff/repository"
)

const (
	devContractID   = "dev-contract-001"
	devContract2ID  = "dev-contract-002"
	devContract3ID  = "dev-contract-003"
	devUserID       = "dev-user-001"
	devUser2ID      = "dev-user-002"
	devEventID      = "dev-event-001"
	devEvent2ID     = "dev-event-002"
	devEvent3ID     = "dev-event-003"
	devAssignmentID = "dev-assignment-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	contracts := contractrepo.NewPostgresRepository(conn)

	existing, err := contracts.GetByID(ctx, devContractID)
	if err != nil {
		log.Fatalf("seed: check existing: %v", err)
	}
	if existing != nil {
		log.Println("seed: dev data already present, nothing to do")
		return
	}

	seedDimensions(ctx, refrepo.NewPostgresRepository(conn), cfg.DeferredMethodID)
	seedDirectory(ctx, directoryrepo.NewPostgresRepository(conn), cfg.OrgEmailDomain)
	seedContracts(ctx, contracts)
	seedSignoffs(ctx, signoffrepo.NewPostgresRepository(conn), cfg.DeferredMethodID)

	log.Println("seed: done")
}

func seedDimensions(ctx context.Context, repo refrepo.Repository, deferredMethodID string) {
	upsert := func(table, id, label string) {
		if err := repo.Upsert(ctx, table, refdomain.Dimension{ID: id, Label: label}); err != nil {
			log.Fatalf("seed: upsert %s/%s: %v", table, id, err)
		}
	}
	upsert(refrepo.TableSignoffMethods, "direct", "Direct")
	upsert(refrepo.TableSignoffMethods, deferredMethodID, "Deferred")
	upsert(refrepo.TableSignoffIdentities, "customer", "Customer")
	upsert(refrepo.TableSignoffIdentities, "partner", "Partner")
	upsert(refrepo.TableDeferReasons, "pending-renewal", "Pending renewal")
	upsert(refrepo.TableServiceTypes, "advisory", "Advisory")
	upsert(refrepo.TableServiceTypes, "implementation", "Implementation")
	upsert(refrepo.TableBuyingPrograms, "enterprise", "Enterprise Agreement")
	upsert(refrepo.TableTheaters, "amer", "AMER")
	upsert(refrepo.TableTheaters, "emea", "EMEA")
	upsert(refrepo.TablePricingModels, "fixed", "Fixed")
	upsert(refrepo.TableEngagementHeaders, "rollout-2024", "2024 Rollout")
}

func seedDirectory(ctx context.Context, repo directoryrepo.Repository, domain string) {
	users := []*directorydomain.User{
		{ID: devUserID, Title: "Delivery Manager", MaskedExternalID: "jdoe@" + domain},
		{ID: devUser2ID, Title: "Account Executive", MaskedExternalID: "asmith@" + domain},
	}
	for _, u := range users {
		if err := repo.CreateUser(ctx, u); err != nil {
			log.Fatalf("seed: create user %s: %v", u.ID, err)
		}
	}
	if err := repo.CreateHierarchyEntry(ctx, &directorydomain.OrgHierarchyEntry{
		RawID:       "jdoe",
		Level6Name:  "Global Services",
		Level7Name:  "Delivery",
		Level8Name:  "Region West",
		Level9Name:  "Team 4",
		ManagerName: "A. Manager",
		Theater:     "AMER",
	}); err != nil {
		log.Fatalf("seed: create hierarchy entry: %v", err)
	}
}

func seedContracts(ctx context.Context, repo contractrepo.Repository) {
	now := time.Now().UTC()
	list := []*contractdomain.BookingContract{
		{
			ID:              devContractID,
			AccountName:     "Acme Corp",
			BookingCountry:  "US",
			TheaterID:       "amer",
			ServiceTypeID:   "advisory",
			BuyingProgramID: "enterprise",
			PricingModelID:  "fixed",
			SoftwareAmount:  120000,
			HardwareAmount:  30000,
			AgreementStart:  now.AddDate(0, -8, 0),
			AgreementEnd:    now.AddDate(0, 4, 0),
		},
		{
			ID:              devContract2ID,
			AccountName:     "Globex",
			BookingCountry:  "DE",
			TheaterID:       "emea",
			ServiceTypeID:   "implementation",
			BuyingProgramID: "enterprise",
			PricingModelID:  "fixed",
			SoftwareAmount:  80000,
			AgreementStart:  now.AddDate(0, -6, 0),
			AgreementEnd:    now.AddDate(0, 6, 0),
		},
		{
			ID:              devContract3ID,
			AccountName:     "Initech",
			BookingCountry:  "US",
			TheaterID:       "amer",
			ServiceTypeID:   "advisory",
			BuyingProgramID: "enterprise",
			PricingModelID:  "fixed",
			SoftwareAmount:  45000,
			AgreementStart:  now.AddDate(0, -5, 0),
			AgreementEnd:    now.AddDate(0, 7, 0),
		},
	}
	for _, c := range list {
		if err := repo.Create(ctx, c); err != nil {
			log.Fatalf("seed: create contract %s: %v", c.ID, err)
		}
	}
}

func seedSignoffs(ctx context.Context, repo signoffrepo.Repository, deferredMethodID string) {
	now := time.Now().UTC()
	events := []*signoffdomain.SignoffEvent{
		{
			ID:         devEventID,
			ContractID: devContractID,
			UserID:     devUserID,
			CreatedAt:  now.AddDate(0, 0, -40),
			MethodID:   "direct",
			IdentityID: "customer",
		},
		{
			ID:         devEvent2ID,
			ContractID: devContractID,
			UserID:     devUser2ID,
			CreatedAt:  now.AddDate(0, 0, -100),
			MethodID:   "direct",
			IdentityID: "partner",
		},
		{
			ID:            devEvent3ID,
			ContractID:    devContract2ID,
			UserID:        devUserID,
			CreatedAt:     now.AddDate(0, 0, -10),
			MethodID:      deferredMethodID,
			IdentityID:    "customer",
			DeferReasonID: "pending-renewal",
			EngagementID:  "rollout-2024",
		},
	}
	for _, e := range events {
		if err := repo.CreateEvent(ctx, e); err != nil {
			log.Fatalf("seed: create event %s: %v", e.ID, err)
		}
	}
	// dev-contract-003 has no events so the never-signed-off report has a row.
	if err := repo.CreateAssignment(ctx, &signoffdomain.ResponsibleUserAssignment{
		ID:         devAssignmentID,
		ContractID: devContract3ID,
		UserID:     devUserID,
	}); err != nil {
		log.Fatalf("seed: create assignment: %v", err)
	}
}
