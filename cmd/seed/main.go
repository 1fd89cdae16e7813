package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		demoCmd(apiURL, args)
	case "assets":
		assetsCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Seed - Development tool for populating the asset vault API

USAGE:
  seed <command> [options]

COMMANDS:
  demo     Register a throwaway user and fill their vault with sample assets
  assets   Add sample assets to an existing account
  help     Show this help message

ENVIRONMENT:
  API_URL  Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Register a demo user with 5 sample assets
  seed demo

  # Register a demo user with 20 sample assets
  seed demo --count=20

  # Add 10 sample assets to an existing account
  seed assets --email=ann@example.com --password=secret123 --count=10`)
}

func demoCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of sample assets to create")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	email := fmt.Sprintf("demo_%d@example.com", time.Now().UnixNano()%100000)

	fmt.Print("Registering demo user... ")
	user, token, err := client.RegisterUser("Demo User", email, "demo-password-123")
	if err != nil {
		fmt.Println("FAILED")
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s)\n", user.Email)

	createSampleAssets(client, token, *count)

	fmt.Println()
	fmt.Println("Demo account ready:")
	fmt.Printf("  email:    %s\n", user.Email)
	fmt.Printf("  password: demo-password-123\n")
	fmt.Printf("  token:    %s\n", token)
}

func assetsCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("assets", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	password := fs.String("password", "", "Account password (required)")
	count := fs.Int("count", 5, "Number of sample assets to create")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Print("Logging in... ")
	user, token, err := client.Login(*email, *password)
	if err != nil {
		fmt.Println("FAILED")
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s)\n", user.Email)

	createSampleAssets(client, token, *count)
}

var sampleAssets = []struct {
	name        string
	description string
	category    string
	metadata    map[string]any
}{
	{"MacBook Pro 14", "Work laptop", "electronics", map[string]any{"serial": "C02XL0GYJGH5", "purchase_year": 2023}},
	{"Herman Miller Aeron", "Office chair", "furniture", map[string]any{"size": "B"}},
	{"Dell U2720Q", "4K monitor", "electronics", map[string]any{"inches": 27}},
	{"Fender Stratocaster", "Electric guitar", "instruments", map[string]any{"color": "sunburst", "year": 2019}},
	{"Trek FX 3", "Commuter bike", "vehicles", map[string]any{"frame_cm": 56}},
	{"Sony A7 III", "Mirrorless camera", "electronics", map[string]any{"shutter_count": 10421}},
	{"Kindle Paperwhite", "E-reader", "electronics", nil},
	{"Weber Spirit II", "Gas grill", "appliances", map[string]any{"burners": 3}},
	{"Patagonia duffel", "90L travel bag", "luggage", nil},
	{"Bosch GSR 12V", "Cordless drill", "tools", map[string]any{"voltage": 12}},
}

func createSampleAssets(client *APIClient, token string, count int) {
	fmt.Printf("Creating %d sample assets...\n", count)

	created := 0
	for i := 0; i < count; i++ {
		sample := sampleAssets[i%len(sampleAssets)]
		name := sample.name
		if i >= len(sampleAssets) {
			name = fmt.Sprintf("%s #%d", sample.name, i/len(sampleAssets)+1)
		}

		asset, err := client.CreateAsset(token, name, sample.description, sample.category, sample.metadata)
		if err != nil {
			fmt.Printf("  %s: FAILED (%v)\n", name, err)
			continue
		}
		fmt.Printf("  %s (%s)\n", asset.Name, asset.ID)
		created++
	}

	assets, err := client.ListAssets(token)
	if err != nil {
		fmt.Printf("Warning: could not list assets back: %v\n", err)
		return
	}
	fmt.Printf("Done: %d created, %d total in vault\n", created, len(assets))
}
