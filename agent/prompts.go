// System prompts and the SQL-generation tool definition.
// Immutable configuration data, assembled once at package init.

package agent

import (
	"github.com/richinex/askdb/database"
	"github.com/richinex/askdb/llm"
)

// generateSQLTool is the single tool declared to the tool-calling model:
// one required string parameter carrying the query.
var generateSQLTool = llm.ToolDefinition{
	Name:        "generate_sql",
	Description: "Generate a SQL query to answer the user's question about the database.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"sql": map[string]interface{}{
				"type":        "string",
				"description": "The SQL query to execute against the database.",
			},
		},
		"required": []string{"sql"},
	},
}

var sqlSystemPrompt = "You are a database assistant. Given a natural language question, " +
	"generate a SQL query to answer it.\n\n" +
	database.SchemaDescription + "\n\n" +
	"Rules:\n" +
	"- Generate only SELECT queries.\n" +
	"- Use the generate_sql tool to provide your SQL query.\n" +
	"- Write clear, correct SQL that answers the user's question."

const responseSystemPrompt = "You are a helpful assistant. Given a question, a SQL query, " +
	"and the query results, provide a clear natural language answer.\n\n" +
	"Be concise and directly answer the question using the data provided. " +
	"If the query returned an error, explain what went wrong."

const simpleSystemPrompt = "You are a helpful assistant. Answer questions accurately and concisely. " +
	"If you are not sure about something, say so. Decline requests that are harmful or unsafe."
