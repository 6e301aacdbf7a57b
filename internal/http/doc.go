// Package httpapp provides the HTTP server for Remarks.
//
//	@title						Remarks API
//	@version					1.0
//	@description				Post comments, edit them, and review their edit history.
//	@description
//	@description				## Authentication Flow
//	@description
//	@description				Reading comments is public. Every write requires a bearer token.
//	@description
//	@description				```
//	@description				┌──────────────────┐     ┌──────────────────┐     ┌──────────────────┐
//	@description				│  1. Register     │────▶│  2. Get Token    │────▶│  3. Write        │
//	@description				│  POST /register  │     │  POST /auth      │     │  Bearer TOKEN    │
//	@description				└──────────────────┘     └──────────────────┘     └──────────────────┘
//	@description				```
//	@description
//	@description				```bash
//	@description				curl -X POST /api/register -d '{"name":"Alice","email":"alice@example.com","password":"secret-pass"}'
//	@description				curl -X POST /api/auth -d '{"email":"alice@example.com","password":"secret-pass"}'
//	@description				# Returns: {"token": "TOKEN"}
//	@description				curl -X POST /api/comments -H "Authorization: Bearer TOKEN" -d '{"comment":"hello"}'
//	@description				```
//	@description
//	@description				Signing in again revokes every token issued before, so each user holds
//	@description				a single active session.
//
//	@contact.name				Remarks
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from the /api/auth endpoint
//
//	@tag.name					Comments
//	@tag.description			Post, edit, delete and browse comments. Only the author may edit a comment or read its history. Admins may delete any comment.
//
//	@tag.name					Authentication
//	@tag.description			Registration, sign in, sign out and password changes.
//
//	@tag.name					Users
//	@tag.description			Profile of the signed-in user.
package httpapp
