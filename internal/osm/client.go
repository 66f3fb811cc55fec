// Package osm fetches map features from an Overpass API server.
package osm

import (
	"io"
	"net/http"

	"github.com/kevinburke/rest"
)

// Version is sent in the User-Agent.
const Version = "0.3"

// Host is the public Overpass instance.
const Host = "https://overpass-api.de/api"

type Client struct {
	Client *rest.Client
	Host   string

	Features *FeatureService
}

// NewClient returns a new Client for the public Overpass instance.
func NewClient() *Client {
	return NewClientWithHost(Host)
}

// NewClientWithHost returns a Client for the Overpass API rooted at host,
// e.g. "https://overpass.kumi.systems/api".
func NewClientWithHost(host string) *Client {
	c := new(Client)
	c.Host = host
	c.Client = rest.NewClient("", "", host)

	c.Features = &FeatureService{client: c}
	return c
}

// NewRequest creates a new HTTP request to hit the given endpoint.
func (c *Client) NewRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := c.Client.NewRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "osm-to-3dprint/"+Version+" (github.com/JonSche/osm-to-3dprint) "+req.Header.Get("User-Agent"))
	return req, nil
}
