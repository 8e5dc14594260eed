package main

//go:generate swag init -g cmd/agent/main.go -o docs
