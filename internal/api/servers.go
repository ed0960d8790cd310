package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/glanced/internal/errors"
	"github.com/mozilla-ai/glanced/internal/registry"
)

// Server is the API-safe representation of a registered server.
type Server struct {
	ID          string `doc:"Logical identifier of the server"      json:"id"`
	Name        string `doc:"Human-readable name of the server"     json:"name"`
	URL         string `doc:"Base URL of the server's Glances agent" json:"url"`
	Description string `doc:"Optional free-form description"        json:"description,omitempty"`
}

// ServersResponse represents the wrapped API response for a list of servers.
type ServersResponse struct {
	Body struct {
		Servers []Server `doc:"Registered servers" json:"servers"`
	}
}

// ServerRequest represents the incoming request for a single server.
type ServerRequest struct {
	ID string `doc:"ID of the server to look up" example:"web-01" path:"id"`
}

// ServerResponse represents the wrapped API response for a single server.
type ServerResponse struct {
	Body Server
}

// RegisterServerRoutes sets up registry-related API endpoint routes.
func RegisterServerRoutes(routerAPI huma.API, reg *registry.Registry, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	// Route at the root of the group (no path specified).
	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List all registered servers",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServersResponse, error) {
			return handleServers(reg)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServer",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get a registered server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerRequest) (*ServerResponse, error) {
			return handleServer(reg, input.ID)
		},
	)
}

// handleServers returns the list of registered servers in registry order.
func handleServers(reg *registry.Registry) (*ServersResponse, error) {
	descriptors := reg.List()

	servers := make([]Server, 0, len(descriptors))
	for _, d := range descriptors {
		servers = append(servers, toAPIServer(d))
	}

	resp := &ServersResponse{}
	resp.Body.Servers = servers

	return resp, nil
}

// handleServer returns a single registered server by id.
func handleServer(reg *registry.Registry, id string) (*ServerResponse, error) {
	d, ok := reg.Get(strings.TrimSpace(id))
	if !ok {
		return nil, errors.NewUnknownServer(id)
	}

	resp := &ServerResponse{}
	resp.Body = toAPIServer(d)

	return resp, nil
}

func toAPIServer(d registry.Descriptor) Server {
	return Server{
		ID:          d.ID,
		Name:        d.Name,
		URL:         d.URL,
		Description: d.Description,
	}
}
