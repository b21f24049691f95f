package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `procboard tracks processes and the boards that belong to them.

Core concepts:
- Process: a named workspace with start/end instants and a status (pending, in_progress, done).
  The name is unique, compared without regard to case.
- Each process owns up to three namespaces: lists, cards and charts. They are created on the
  first write and never by reads.
- Lists group cards. Deleting a list deletes its cards.
- Cards carry a title, a list_id and any extra attributes you send. Moving a card to done stamps
  completed_at and a completion message; moving it out of done clears both.

Workflow:
1) list_processes or create_process.
2) create_list, then create_card with that list's id.
3) update_process with a new name renames every namespace. If the response has
   partial_failure=true, call retry_rename(old_name, new_name) until it reports no failures.
4) delete_process drops metadata and every namespace. partial_failure=true means some
   namespace could not be dropped; calling delete_process again finishes the job.

Docs:
- procboard://docs/namespaces (naming and lifecycle rules)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "procboard://docs/namespaces",
		Name:        "docs_namespaces",
		Title:       "Namespaces and lifecycle",
		Description: "How process names map to namespaces and how rename and delete behave.",
		Content: `# Namespaces and lifecycle

## Naming

| Kind   | Namespace        |
|--------|------------------|
| lists  | ` + "`{name}_lists`" + `  |
| cards  | ` + "`{name}`" + `        |
| charts | ` + "`{name}_graphs`" + ` |

Process names may not end in ` + "`_lists`" + ` or ` + "`_graphs`" + `, nor start with ` + "`sqlite_`" + `.

## Lazy creation

A namespace appears on the first write to that kind. Listing an empty process returns an
empty array and creates nothing.

## Rename

The registry record is renamed first. Each namespace is then renamed on its own. The response
lists every kind with one outcome:

- ` + "`renamed`" + `: moved to the new name
- ` + "`skipped_absent`" + `: never created, or already moved
- ` + "`failed`" + `: left under the old name; see ` + "`reason`" + `

Use ` + "`retry_rename`" + ` to finish a partial rename. It only touches namespaces and can be
repeated.

## Delete

Metadata goes first, then each namespace is dropped. The report lists ` + "`metadata`" + `
(deleted or already_absent) and a per-kind outcome (dropped, skipped_absent, failed).
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
