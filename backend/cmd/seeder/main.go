package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"resultanalyzer/backend/internal/dataset"
	"resultanalyzer/backend/internal/shared"
	"resultanalyzer/backend/internal/store"
)

const (
	AdminID   = "admin-001"
	FacultyID = "faculty-001"

	// Development-only credentials.
	CommonPassword = "password"
)

func main() {
	log.Println("Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := shared.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	seedUsers(ctx, db)
	seedSampleUpload(ctx, db)

	log.Println("All data seeding completed successfully.")
}

func seedUsers(ctx context.Context, db *mongo.Database) {
	log.Println("--- Seeding Users ---")
	usersCol := db.Collection("users")

	users := []shared.User{
		{ID: AdminID, Name: "Super Admin", Email: "admin@example.com", Role: "admin", IsActive: true, CreatedAt: time.Now()},
		{ID: FacultyID, Name: "Dr. Jane Professor", Email: "faculty@example.com", Role: "faculty", IsActive: true, CreatedAt: time.Now()},
	}

	hashedBytes, _ := bcrypt.GenerateFromPassword([]byte(CommonPassword), 10)
	hashedPassword := string(hashedBytes)

	for _, u := range users {
		u.PasswordHash = hashedPassword
		filter := bson.M{"email": u.Email}
		update := bson.M{"$set": u}
		opts := options.Update().SetUpsert(true)

		if _, err := usersCol.UpdateOne(ctx, filter, update, opts); err != nil {
			log.Fatalf("Error seeding user %s: %v", u.Email, err)
		}
		log.Printf("Seeded %s: %s", u.Role, u.Email)
	}
}

// seedSampleUpload stores one small demo gradesheet so the frontend has
// something to analyze on a fresh database.
func seedSampleUpload(ctx context.Context, db *mongo.Database) {
	log.Println("--- Seeding Sample Gradesheet ---")

	dataStore := store.New(db)

	existing, err := dataStore.ListUploads(ctx, 1)
	if err != nil {
		log.Fatalf("Error checking existing uploads: %v", err)
	}
	if len(existing) > 0 {
		log.Println("Uploads already present, skipping sample gradesheet.")
		return
	}

	upload := &shared.Upload{
		FileName: "demo-results.xlsx",
		Headers: []string{
			"Map Number", "Student Name", "Branch", "Sem", "Result",
			"SPI", "CPI", "No Of Backlog", "Academic Year",
		},
		Rows: []dataset.Row{
			{"D23CS001", "Asha Patel", "Computer", 1, "PASS", 8.4, 8.4, 0, "2023-24"},
			{"D23CS001", "Asha Patel", "Computer", 2, "PASS", 8.9, 8.65, 0, "2023-24"},
			{"D23CS002", "Ravi Shah", "Computer", 1, "PASS", 6.1, 6.1, 0, "2023-24"},
			{"D23CS002", "Ravi Shah", "Computer", 2, "FAIL", 4.2, 5.15, 2, "2023-24"},
			{"D23ME001", "Kiran Mehta", "Mechanical", 1, "PASS", 7.3, 7.3, 0, "2023-24"},
			{"D23ME001", "Kiran Mehta", "Mechanical", 2, "PASS", 7.1, 7.2, 1, "2023-24"},
		},
	}
	upload.UploadedBy = "seeder"

	id, err := dataStore.SaveUpload(ctx, upload)
	if err != nil {
		log.Fatalf("Error seeding sample upload: %v", err)
	}
	log.Printf("Seeded sample gradesheet %s (%d rows)", id, upload.RowCount)
}
