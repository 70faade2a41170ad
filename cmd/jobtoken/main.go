// Command jobtoken prints a bearer token accepted by the /api/v1/jobs routes,
// for use by an external scheduler.
package main

import (
	"alcyxob/plants-manager/internal/api"
	"alcyxob/plants-manager/internal/config"
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to jobs.token_ttl")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	lifetime := cfg.Jobs.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := api.SignJobToken(cfg.Jobs.TokenSecret, lifetime, time.Now())
	if err != nil {
		log.Fatalf("FATAL: Could not sign token: %v", err)
	}
	fmt.Println(token)
}
