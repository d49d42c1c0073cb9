// cmd/main.go
package main

import (
	"go-account-api/app"
)

// @title           Go-Account API
// @version         1.0
// @description     Account management API with cache-aside reads and rotating refresh tokens.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
