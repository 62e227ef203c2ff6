// Package tasks contains the background job bodies behind the HTTP endpoints
package tasks
