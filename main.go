package main

import (
	"github.com/NovaGest/crm_service/config"
	"github.com/NovaGest/crm_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
