// Package domain contains core concepts of the chat system.
// This file defines the User projection consumed by the chat core.
// Users are owned by the authentication collaborator; only display fields live here.
package domain

type User struct {
	ID     string
	Name   string
	Avatar string
}
