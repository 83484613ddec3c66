// Package task defines the to-do data model, the cleanup sweep, and
// import validation.
//
// State is the aggregate root and the single unit of persistence:
//
//	{
//	  "tasks": [
//	    {
//	      "id": "6e1c...",
//	      "title": "Task title",
//	      "done": false,
//	      "due_date": "2024-01-01T00:00:00Z",
//	      "list_id": "9a4f...",
//	      "created_at": "2024-01-01T00:00:00Z",
//	      "updated_at": "2024-01-01T00:00:00Z"
//	    }
//	  ],
//	  "lists": [
//	    { "id": "9a4f...", "name": "Groceries", "position": 0 }
//	  ]
//	}
//
// Tasks are owned by State and referenced (not owned) by list membership;
// removing a list clears the reference and keeps the tasks.
//
// # Validation
//
// Imported documents are validated in two modes:
//
// 1. JSON Schema validation against the embedded state.schema.json
// (draft-07: type checks, required fields, minLength, date-time formats).
//
// 2. Minimal fallback validation if the schema cannot be compiled:
// structural checks on tasks/lists arrays and their required fields.
//
// # Sweep
//
// Sweep is the opportunistic cleanup pass over aged completed tasks:
// archive after ArchiveDays, remove after RetentionDays, both boundaries
// exclusive. It runs on load, never on a background timer.
package task
