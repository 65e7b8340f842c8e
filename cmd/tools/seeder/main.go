package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type warehouseSeed struct {
	Name      string
	Latitude  float64
	Longitude float64
	Stock     int
}

// Seed locations use the coordinates of each city's main airport.
var warehouses = []warehouseSeed{
	{"Los Angeles", 33.9425, -118.408056, 355},
	{"New York", 40.639722, -73.778889, 578},
	{"Sao Paulo", -23.435556, -46.473056, 265},
	{"Paris", 49.009722, 2.547778, 694},
	{"Warsaw", 52.165833, 20.967222, 245},
	{"Hong Kong", 22.308889, 113.914444, 419},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	log.Println("Seeding warehouses...")
	for _, w := range warehouses {
		_, err := db.Exec(`
			INSERT INTO warehouses (name, latitude, longitude, stock)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE
			SET latitude = EXCLUDED.latitude,
			    longitude = EXCLUDED.longitude,
			    stock = EXCLUDED.stock;
		`, w.Name, w.Latitude, w.Longitude, w.Stock)
		if err != nil {
			log.Fatalf("Failed to seed warehouse %q: %v", w.Name, err)
		}
		log.Printf("Seeded warehouse %s (stock %d)", w.Name, w.Stock)
	}

	log.Println("Seeding completed successfully!")
}
