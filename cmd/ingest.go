package cmd

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <document-id> <chunks-file>",
	Short: "Load a document's page chunks from a JSON or YAML file",
	Long: "Replaces every stored chunk of the document with the chunks in the file. " +
		"The file holds a list of {page, content} entries.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, path := args[0], args[1]
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		outlinePath, _ := cmd.Flags().GetString("outline")

		chunks, err := document.LoadChunks(path)
		if err != nil {
			return err
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		repo := e.store.ChunkRepo()
		if err := repo.ReplaceChunks(ctx, docID, chunks); err != nil {
			return fmt.Errorf("store chunks: %w", err)
		}

		// Merge metadata flags over whatever is already stored.
		doc, err := repo.GetDocument(ctx, docID)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if doc == nil {
			doc = &store.Document{ID: docID}
		}
		doc.Title = lo.CoalesceOrEmpty(title, doc.Title)
		doc.Description = lo.CoalesceOrEmpty(description, doc.Description)
		if outlinePath != "" {
			if doc.Outline, err = document.LoadOutline(outlinePath); err != nil {
				return err
			}
		}
		if err := repo.SaveDocument(ctx, *doc); err != nil {
			return err
		}

		e.log.Info("document ingested", "document_id", docID, "chunks", len(chunks))
		fmt.Printf("Ingested %d chunks across %d pages into %q.\n",
			len(chunks), len(document.Pages(chunks)), docID)
		return nil
	},
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List ingested documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		docs, err := e.store.ChunkRepo().ListDocuments(context.Background())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents ingested yet.")
			return nil
		}

		fmt.Printf("%-20s  %-32s  %6s  %6s  %s\n", "ID", "Title", "Chunks", "Topics", "Updated")
		fmt.Println(separator(86))
		for _, d := range docs {
			fmt.Printf("%-20s  %-32s  %6d  %6d  %s\n",
				truncate(d.ID, 20), truncate(d.Title, 32), d.ChunkCount, len(d.Outline),
				d.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("title", "", "Document title")
	ingestCmd.Flags().String("description", "", "Short document description")
	ingestCmd.Flags().String("outline", "", "Topic outline file (JSON or YAML)")
}
