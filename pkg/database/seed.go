package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type seedDriver struct {
	name          string
	email         string
	phone         string
	vehicleNumber string
	location      string
	available     bool
}

var seedDrivers = []seedDriver{
	{"Wambui Kamau", "wambui.kamau@swiftaid.com", "+254711234001", "KBA 001X", "Nairobi CBD", true},
	{"Jabari Ochieng", "jabari.ochieng@swiftaid.com", "+254711234002", "KAZ 112Y", "Westlands", true},
	{"Zawadi Mutua", "zawadi.mutua@swiftaid.com", "+254711234003", "KCX 223H", "Kilimani", true},
	{"Mwangi Ngugi", "mwangi.ngugi@swiftaid.com", "+254711234004", "KDJ 334J", "Eastleigh", true},
	{"Amani Kariuki", "amani.kariuki@swiftaid.com", "+254711234005", "KBZ 445K", "Langata", true},
	{"Baraka Mwangi", "baraka.mwangi@swiftaid.com", "+254711234006", "KCA 556L", "Karen", false},
	{"Zuri Wanjiku", "zuri.wanjiku@swiftaid.com", "+254711234007", "KDF 667M", "Ngong Road", true},
	{"Imani Njoroge", "imani.njoroge@swiftaid.com", "+254711234008", "KBC 778N", "Gigiri", true},
	{"Jomo Kamau", "jomo.kamau@swiftaid.com", "+254711234009", "KAW 889P", "Upperhill", true},
	{"Maisha Kimani", "maisha.kimani@swiftaid.com", "+254711234010", "KCE 990Q", "Embakasi", false},
	{"Neema Otieno", "neema.otieno@swiftaid.com", "+254711234011", "KDK 001R", "Dagoretti", true},
	{"Dalila Wekesa", "dalila.wekesa@swiftaid.com", "+254711234012", "KBE 112S", "South B", true},
	{"Bakari Njenga", "bakari.njenga@swiftaid.com", "+254711234013", "KAJ 223T", "South C", true},
	{"Jelani Omondi", "jelani.omondi@swiftaid.com", "+254711234014", "KCH 334U", "Kasarani", false},
	{"Saida Mbugua", "saida.mbugua@swiftaid.com", "+254711234015", "KDN 445V", "Parklands", true},
	{"Hamisi Kiprop", "hamisi.kiprop@swiftaid.com", "+254711234016", "KBJ 556W", "Githurai", true},
	{"Faraji Makena", "faraji.makena@swiftaid.com", "+254711234017", "KAP 667X", "Roysambu", true},
	{"Kamau Wangari", "kamau.wangari@swiftaid.com", "+254711234018", "KCN 778Y", "Ruaka", false},
	{"Zuberi Achieng", "zuberi.achieng@swiftaid.com", "+254711234019", "KDT 889Z", "Pipeline", true},
	{"Taji Nyambura", "taji.nyambura@swiftaid.com", "+254711234020", "KBP 990A", "Umoja", true},
}

// SeedUsers loads the bootstrap admin and driver profiles on first boot.
// Profiles are keyed by email; existing documents are left untouched, so
// availability toggled at runtime survives restarts.
func SeedUsers(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := db.Collection("users")

	count, err := users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	docs := []interface{}{
		bson.M{
			"name":       "System Administrator",
			"email":      "admin@swiftaid.com",
			"phone":      "+254700123456",
			"role":       "admin",
			"created_at": now,
			"updated_at": now,
		},
	}

	for _, d := range seedDrivers {
		docs = append(docs, bson.M{
			"name":  d.name,
			"email": d.email,
			"phone": d.phone,
			"role":  "driver",
			"driver": bson.M{
				"vehicle_number": d.vehicleNumber,
				"location":       d.location,
				"available":      d.available,
				"on_schedule":    false,
			},
			"created_at": now,
			"updated_at": now,
		})
	}

	if _, err := users.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	return nil
}
