// Package generator renders text templates and writes the results to disk.
//
// # Rendering
//
//	r := generator.NewRenderer()
//	content, err := r.RenderFS(templatesFS, "templates/extract_bin.rs.tmpl", data)
//
// # Transactions
//
// Use transactions so a failed write never leaves half the files on disk:
//
//	tx := generator.NewTransaction()
//	tx.AddFile("extract_bin.rs", content, 0644)
//
//	if err := tx.Commit(); err != nil {
//	    // All files rolled back automatically on error
//	    return err
//	}
//
// Files whose on-disk content already matches are not rewritten, so
// repeated runs keep modification times stable.
package generator
