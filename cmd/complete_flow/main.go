package main

import (
	"context"
	"fmt"
	"time"

	"github.com/livefire2015/ez-rental/src/config"
	"github.com/livefire2015/ez-rental/src/logger"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/services"
	"github.com/livefire2015/ez-rental/src/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// This example walks a room through the marketplace using the fixture catalog:
// 1. A landlord posts a room (pending review)
// 2. An admin approves it
// 3. A seeker finds it in search
// 4. The landlord bills the Bách Khoa tenant for October
// 5. The tenant pays the bill

func main() {
	cfg, err := config.NewConfig(".env")
	if err != nil {
		panic(err)
	}
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "complete-flow")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	catalog := store.NewMemoryCatalog()
	seed, err := store.LoadFixtures(ctx, cfg.FixturesPath, catalog)
	if err != nil {
		log.Fatal("failed to load fixtures", zap.Error(err))
	}
	checker := services.NewPasswordChecker(catalog.Users, 0)
	for userID, password := range seed.Passwords {
		if err := checker.SetPassword(userID, password); err != nil {
			log.Fatal("failed to set password", zap.Error(err))
		}
	}

	listings := services.NewListingService(catalog, log)
	search := services.NewSearchService(catalog.Rooms, log)
	billing := services.NewBillingService(catalog, log)

	fmt.Println("=== EZ Rental - Complete Flow Example ===")
	fmt.Println()

	// Step 1: Landlord posts a room
	fmt.Println("Step 1: Posting a Room")
	fmt.Println("----------------------")

	landlord := signIn(ctx, log, catalog, checker, seed, "an.landlord@ezrental.vn")
	draft, err := models.NewRoomBuilder().
		WithTitle("Phòng có ban công Bách Khoa", "Phòng tầng 3, ban công hướng đông.").
		WithLocation("270 Lý Thường Kiệt", "Quận 10", "TP. Hồ Chí Minh").
		WithPrice(decimal.NewFromInt(4200000)).
		WithLayout(models.RoomTypeSingle, 28, 2).
		WithAmenities("wifi", "máy lạnh", "ban công").
		WithFeatures(true, true, true, false).
		WithTariffs(decimal.NewFromInt(3500), decimal.NewFromInt(25000)).
		WithLandlord(landlord.ID).
		Build()
	if err != nil {
		log.Fatal("failed to build room", zap.Error(err))
	}
	room, err := listings.CreateRoom(ctx, landlord.session, *draft)
	if err != nil {
		log.Fatal("failed to create room", zap.Error(err))
	}
	fmt.Printf("  ✓ %q posted at %s/tháng → status: %s\n\n", room.Title, room.Price, room.ApprovalStatus)

	found, err := search.Search(ctx, "ban công", models.RoomFilter{}, nil)
	if err != nil {
		log.Fatal("search failed", zap.Error(err))
	}
	fmt.Printf("  Search for \"ban công\" before review: %d result(s)\n\n", len(found))

	// Step 2: Admin approves it
	fmt.Println("Step 2: Moderation")
	fmt.Println("------------------")

	admin := signIn(ctx, log, catalog, checker, seed, "admin@ezrental.vn")
	queue, err := listings.PendingRooms(ctx, admin.session)
	if err != nil {
		log.Fatal("failed to list pending rooms", zap.Error(err))
	}
	fmt.Printf("  Pending rooms: %d\n", len(queue))
	if _, err := listings.ApproveRoom(ctx, admin.session, room.ID); err != nil {
		log.Fatal("failed to approve room", zap.Error(err))
	}
	fmt.Printf("  ✓ %q approved\n\n", room.Title)

	// Step 3: A seeker searches
	fmt.Println("Step 3: Searching")
	fmt.Println("-----------------")

	maxPrice := decimal.NewFromInt(5000000)
	district := "Quận 10"
	found, err = search.Search(ctx, "bách khoa", models.RoomFilter{
		District:       &district,
		MaxPrice:       &maxPrice,
		AirConditioned: true,
	}, &models.SortSpec{By: models.SortByPrice, Order: models.SortAsc})
	if err != nil {
		log.Fatal("search failed", zap.Error(err))
	}
	for _, r := range found {
		fmt.Printf("  • %-40s %12s đ  %5.1f m²\n", r.Title, r.Price, r.Area)
	}
	fmt.Println()

	// Step 4: Landlord bills the tenant linked to the Bách Khoa room
	fmt.Println("Step 4: Billing")
	fmt.Println("---------------")

	roomID := found[0].ID
	for _, r := range found {
		if r.HostelName != "" {
			roomID = r.ID
			break
		}
	}
	bill, err := billing.IssueBill(ctx, landlord.session, roomID, services.BillRequest{
		Month:   10,
		Year:    2024,
		DueDate: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
		Reading: services.MeterReading{
			ElectricityUsage: decimal.NewFromInt(150),
			WaterUsage:       decimal.NewFromInt(12),
			OtherFees:        decimal.NewFromInt(200000),
		},
	})
	if err != nil {
		log.Fatal("failed to issue bill", zap.Error(err))
	}
	fmt.Printf("  Period %s\n", bill.Period())
	fmt.Printf("    Rent:        %12s đ\n", bill.RentAmount)
	fmt.Printf("    Electricity: %12s đ (%s kWh × %s)\n", bill.ElectricityCharge(), bill.ElectricityUsage, bill.ElectricityRate)
	fmt.Printf("    Water:       %12s đ (%s m³ × %s)\n", bill.WaterCharge(), bill.WaterUsage, bill.WaterRate)
	fmt.Printf("    Other fees:  %12s đ\n", bill.OtherFees)
	fmt.Printf("    Total:       %12s đ\n\n", bill.TotalAmount())

	// Step 5: Payment
	fmt.Println("Step 5: Payment")
	fmt.Println("---------------")

	tenant := signIn(ctx, log, catalog, checker, seed, "binh.tenant@ezrental.vn")
	paidAt := time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC)
	paid, err := billing.MarkPaid(ctx, tenant.session, bill.ID, paidAt)
	if err != nil {
		log.Fatal("failed to mark bill paid", zap.Error(err))
	}
	fmt.Printf("  ✓ Bill %s paid on %s → status: %s\n\n", paid.Period(), paidAt.Format("2006-01-02"), paid.Status)

	overdue, err := billing.OverdueBills(ctx, landlord.session, paidAt)
	if err != nil {
		log.Fatal("failed to list overdue bills", zap.Error(err))
	}
	fmt.Printf("  Overdue bills on %s: %d\n\n", paidAt.Format("2006-01-02"), len(overdue))

	fmt.Println("=== Example Complete ===")
}

type actor struct {
	*models.User
	session *services.Session
}

// signIn opens an in-memory session for a fixture account using its sample password
func signIn(ctx context.Context, log *zap.Logger, catalog *store.Catalog, checker *services.PasswordChecker, seed *store.SeedResult, email string) actor {
	users, err := catalog.Users.List(ctx)
	if err != nil {
		log.Fatal("failed to list users", zap.Error(err))
	}
	var password string
	for _, u := range users {
		if u.Email == email {
			password = seed.Passwords[u.ID]
		}
	}

	session := services.NewSession(ctx, checker, services.NewMemorySessionStore(), log)
	user, err := session.SignIn(ctx, services.Credentials{Email: email, Password: password})
	if err != nil {
		log.Fatal("failed to sign in", zap.String("email", email), zap.Error(err))
	}
	return actor{User: user, session: session}
}
