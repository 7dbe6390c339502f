package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/docquiz/internal/compress"
	"github.com/abhisek/docquiz/internal/document"
	"github.com/abhisek/docquiz/internal/sampler"
	"github.com/abhisek/docquiz/internal/store"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <document-id>...",
	Short: "Preview the snippets and topic summaries a document quiz would use",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outlinePath, _ := cmd.Flags().GetString("outline")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		info, err := loadDocumentInfo(ctx, e.store.ChunkRepo(), args, outlinePath)
		if err != nil {
			return err
		}
		chunks, err := e.store.ChunkRepo().Chunks(ctx, args)
		if err != nil {
			return fmt.Errorf("load chunks: %w", err)
		}
		if len(chunks) == 0 {
			return fmt.Errorf("no chunks stored for %s", strings.Join(args, ", "))
		}

		gen := e.cfg.Generation.OrDefault()
		res := sampler.New(e.embedder(ctx), gen.Sampling, e.log).Sample(ctx, chunks, info.outline)
		summaries := compress.New(gen.Compression).Compress(chunks, info.outline)

		fmt.Printf("Snippets (%d, ~%d tokens of %d budget)\n", len(res.Snippets), res.TotalTokens, gen.Sampling.TokenBudget)
		fmt.Println(separator(80))
		for _, s := range res.Snippets {
			fmt.Printf("p.%-4d  %-8s  %5d tok  %s\n", s.Page, s.Reason, s.ApproxTokenCount, truncate(s.Content, 52))
		}
		if res.DiversityGuardDegraded() {
			fmt.Printf("\nDiversity guard degraded: %d embedding lookups failed.\n", res.EmbeddingFailures)
		}

		fmt.Printf("\nSummaries (%d)\n", len(summaries))
		fmt.Println(separator(80))
		for _, s := range summaries {
			fmt.Printf("[%s] %s (pages %v)\n  %s\n", s.Kind, s.Title, s.Pages, s.Summary)
		}
		return nil
	},
}

// documentInfo is the merged metadata of the documents a request covers.
type documentInfo struct {
	title       string
	description string
	outline     []document.Topic
}

// loadDocumentInfo merges stored metadata of ids in order. A non-empty
// outlinePath replaces the stored outlines.
func loadDocumentInfo(ctx context.Context, repo store.ChunkRepo, ids []string, outlinePath string) (documentInfo, error) {
	var info documentInfo
	for _, id := range ids {
		doc, err := repo.GetDocument(ctx, id)
		if err != nil {
			return info, fmt.Errorf("get document %s: %w", id, err)
		}
		if doc == nil {
			return info, fmt.Errorf("document %q not found; run ingest first", id)
		}
		if info.title == "" {
			info.title = doc.Title
			info.description = doc.Description
		}
		info.outline = append(info.outline, doc.Outline...)
	}
	if info.title == "" {
		info.title = ids[0]
	}

	if outlinePath != "" {
		outline, err := document.LoadOutline(outlinePath)
		if err != nil {
			return info, err
		}
		info.outline = outline
	}
	return info, nil
}

func init() {
	sampleCmd.Flags().String("outline", "", "Topic outline file (JSON or YAML) overriding the stored outline")
}
