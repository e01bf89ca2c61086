package server

// ToolDefinition describes one remotely callable tool.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func toolDefinitions() []ToolDefinition {
	filePathProp := map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the document file",
	}
	return []ToolDefinition{
		{
			Name:        "extract_text",
			Description: "Extract full text content from a document (PDF, DOCX, TXT, etc.)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": filePathProp,
				},
				"required": []string{"file_path"},
			},
		},
		{
			Name:        "chunk_document",
			Description: "Split a document into overlapping chunks for RAG. Optionally indexes them for semantic search.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": filePathProp,
					"chunk_size": map[string]interface{}{
						"type":        "integer",
						"description": "Target chunk size in characters (default: 500)",
						"default":     500,
					},
					"overlap": map[string]interface{}{
						"type":        "integer",
						"description": "Overlap between chunks in characters (default: 50)",
						"default":     50,
					},
				},
				"required": []string{"file_path"},
			},
		},
		{
			Name:        "search_chunks",
			Description: "Semantic search across indexed document chunks using remote embeddings",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Search query",
					},
					"doc_id": map[string]interface{}{
						"type":        "string",
						"description": "Optional document ID to scope search",
					},
					"top_k": map[string]interface{}{
						"type":        "integer",
						"description": "Number of results to return (default: 5)",
						"default":     5,
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "summarize_document",
			Description: "Generate a summary of a document. Supports brief, standard, and detailed summaries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": filePathProp,
					"detail_level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"brief", "standard", "detailed"},
						"description": "Summary detail level (default: brief)",
						"default":     "brief",
					},
				},
				"required": []string{"file_path"},
			},
		},
		{
			Name:        "get_metadata",
			Description: "Extract document metadata (title, author, page count, word count, file type)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": filePathProp,
				},
				"required": []string{"file_path"},
			},
		},
	}
}
