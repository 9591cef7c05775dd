// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Stave tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/stave/internal/annot"
	"github.com/starford/stave/internal/index"
	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/storage"
)

// Server wraps the MCP server with Stave tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    *index.DB
	reg   *namespace.Registry
}

// New creates a new MCP server with all Stave tools registered.
func New(store storage.Provider, db *index.DB, reg *namespace.Registry) *Server {
	s := &Server{store: store, db: db, reg: reg}

	s.mcp = server.NewMCPServer(
		"Stave",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through annotation documents by title, artist, and namespaces."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the full JSON content of an annotation document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. albums/track01.jams)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new annotation document at the specified path. "+
			"Content MUST follow the canonical document format (file_metadata, annotations "+
			"with registered namespaces, sandbox). Read the contract first via the "+
			"get_document_contract tool or the stave://document-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new document (must end with .jams)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("JSON content following the Stave document format contract")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("validate_document",
		mcp.WithDescription("Validate a stored annotation document against the namespace registry. "+
			"Returns the full list of problems with paths, severities, and expectations."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the document to validate")),
	), s.validateDocument)

	s.mcp.AddTool(mcp.NewTool("get_document_contract",
		mcp.WithDescription("Returns the canonical Stave document format contract. "+
			"Call this before creating or updating documents to ensure correct structure."),
	), s.getDocumentContract)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all documents or documents in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("list_namespaces",
		mcp.WithDescription("List registered annotation namespaces with their value constraints."),
	), s.listNamespaces)

	s.mcp.AddTool(mcp.NewTool("upload_media",
		mcp.WithDescription("Download an audio file from a URL or data URI into the vault media directory. "+
			"Returns the saved path for use in document file_metadata identifiers."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data URI of the audio file")),
		mcp.WithString("filename", mcp.Description("Optional filename override")),
	), s.uploadMedia)

	// Resource: document format contract.
	s.mcp.AddResource(
		mcp.NewResource("stave://document-format", "Document Format Contract",
			mcp.WithResourceDescription("Canonical JSON annotation document format that all documents must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Check existence.
	if _, readErr := s.store.Read(path); readErr == nil {
		return mcp.NewToolResultError(fmt.Sprintf("document already exists: %s", path)), nil
	}

	data := []byte(content)
	if _, decErr := annot.Decode(data); decErr != nil {
		return mcp.NewToolResultError(decErr.Error()), nil
	}
	if err := s.store.Write(path, data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Index the new document.
	_ = index.IndexFile(s.db, s.reg, path, data)

	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) validateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	doc, err := annot.Decode(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	problems := doc.Validate(s.reg)
	if len(problems) == 0 {
		return mcp.NewToolResultText("valid: no problems found"), nil
	}
	out, _ := json.MarshalIndent(problems, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) listNamespaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type nsInfo struct {
		ID          string `json:"id"`
		Description string `json:"description,omitempty"`
		Value       string `json:"value"`
		Dense       bool   `json:"dense,omitempty"`
	}
	var out []nsInfo
	for id := range s.reg.IDs() {
		schema, err := s.reg.Resolve(id)
		if err != nil {
			continue
		}
		out = append(out, nsInfo{
			ID:          id,
			Description: schema.Description,
			Value:       schema.Value.Describe(),
			Dense:       schema.Dense,
		})
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) getDocumentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readDocumentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "stave://document-format",
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}
