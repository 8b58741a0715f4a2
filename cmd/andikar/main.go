// Package main is the entry point for the Andikar gateway.
//
//	@title						Andikar Gateway API
//	@version					1.0
//	@description				Text humanizing and AI-content detection gateway with accounts, plans, rate limiting, and M-Pesa billing.
//
//	@contact.name				Andikar Support
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8000
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication (format: "Bearer {token}")
package main

func main() {
	Execute()
}
