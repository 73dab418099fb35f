//go:generate swag init -g docs.go -o ../../docs --parseDependency --parseInternal --dir .,../../internal/httpapi

package main

// @title Knowledge Snippet API
// @version 0.1.0
// @description Save and search bite-sized knowledge snippets.
// @BasePath /
