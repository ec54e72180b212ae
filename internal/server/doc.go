// Package server implements the files-manager HTTP API: user registration,
// token sessions, and file metadata records with local payload storage.
package server
