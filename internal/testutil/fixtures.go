// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// InferenceSpecName is the file name of the root fixture document.
const InferenceSpecName = "inference.json"

// CommonSpecName is the file name of the document referenced by the root fixture.
const CommonSpecName = "common.json"

// InferenceSpec is a small OpenAPI 3.1 document shaped like the Azure OpenAI
// inference description. It contains one of each construct the pipeline
// rewrites: an external reference, a discriminator without required entries,
// an object-valued description and JSON Schema 2020-12 keywords.
const InferenceSpec = `{
  "openapi": "3.1.0",
  "info": {"title": "Azure OpenAI Service API", "version": "2025-04-01-preview"},
  "paths": {
    "/deployments/{deployment-id}/chat/completions": {
      "post": {
        "operationId": "ChatCompletions_Create",
        "parameters": [{"$ref": "#/components/parameters/deploymentId"}],
        "responses": {
          "200": {
            "description": "OK",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/createChatCompletionResponse"}}}
          },
          "default": {
            "description": "An error occurred.",
            "content": {"application/json": {"schema": {"$ref": "common.json#/components/schemas/errorResponse"}}}
          }
        }
      }
    }
  },
  "components": {
    "parameters": {
      "deploymentId": {"name": "deployment-id", "in": "path", "required": true, "schema": {"type": "string"}}
    },
    "schemas": {
      "createChatCompletionResponse": {
        "type": "object",
        "description": {"summary": "Chat completion response", "since": "2024-02-01"},
        "properties": {"id": {"type": "string"}}
      },
      "chatMessage": {
        "discriminator": {"propertyName": "role"},
        "oneOf": [
          {"$ref": "#/components/schemas/userMessage"},
          {"type": "object", "required": ["content"]}
        ]
      },
      "userMessage": {"type": "object", "properties": {"role": {"type": "string"}}},
      "metadata": {"type": "object", "propertyNames": {"pattern": "^[a-z]+$"}, "$recursiveAnchor": true}
    }
  }
}
`

// CommonSpec is referenced from InferenceSpec by relative location.
const CommonSpec = `{
  "components": {
    "schemas": {
      "errorResponse": {"type": "object", "properties": {"error": {"$ref": "#/components/schemas/error"}}},
      "error": {"type": "object", "properties": {"code": {"type": "string"}, "inner": {"$recursiveRef": "#"}}}
    }
  }
}
`

// InferenceDocuments returns the fixture documents keyed by file name.
func InferenceDocuments() map[string]string {
	return map[string]string{
		InferenceSpecName: InferenceSpec,
		CommonSpecName:    CommonSpec,
	}
}

// WriteTempFile writes content to name inside a new temporary directory.
// Returns the path to the file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}

// WriteTempFiles writes every file into one temporary directory and returns
// the directory.
func WriteTempFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write temporary file %s: %v", name, err)
		}
	}
	return dir
}

// SpecServer serves fixture documents over HTTP.
type SpecServer struct {
	*httptest.Server
	requests atomic.Int64
	conns    atomic.Int64
	agent    atomic.Value
}

// NewSpecServer starts a server that returns files[name] for GET /name and
// 404 for anything else. The server is closed when the test completes.
func NewSpecServer(t *testing.T, files map[string]string) *SpecServer {
	t.Helper()

	s := &SpecServer{}
	s.agent.Store("")
	s.Server = httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.agent.Store(r.UserAgent())
		content, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(content))
	}))
	s.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			s.conns.Add(1)
		}
	}
	s.Start()
	t.Cleanup(s.Close)
	return s
}

// URLFor returns the absolute URL of a served file.
func (s *SpecServer) URLFor(name string) string {
	return s.URL + "/" + name
}

// Requests returns the number of requests served so far.
func (s *SpecServer) Requests() int {
	return int(s.requests.Load())
}

// Connections returns the number of client connections accepted so far.
func (s *SpecServer) Connections() int {
	return int(s.conns.Load())
}

// LastUserAgent returns the User-Agent header of the most recent request.
func (s *SpecServer) LastUserAgent() string {
	return s.agent.Load().(string)
}
