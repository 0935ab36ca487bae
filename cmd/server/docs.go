package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Broker API
// @version         0.1.0
// @description     Simulated brokerage: cash accounts, market orders, portfolio valuation and history.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
