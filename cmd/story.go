package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/store"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/storygen"
)

// importSession is recorded as the session of imported stories.
const importSession = "import"

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Manage stored stories",
}

var storyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("theme")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.ListOpts{}
		if query == "" {
			opts.Limit = limit
		}
		summaries, err := s.StoryRepo().List(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if query != "" {
			summaries = story.Rank(summaries, query)
			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}
		}
		printSummaries(cmd.OutOrStdout(), summaries)
		return nil
	},
}

func printSummaries(w io.Writer, summaries []story.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No stories found.")
		return
	}
	fmt.Fprintf(w, "%-6s  %-16s  %-24s  %s\n", "ID", "Created", "Theme", "Title")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, s := range summaries {
		fmt.Fprintf(w, "%-6d  %-16s  %-24s  %s\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(s.Theme, 24), s.Title)
	}
}

var storyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a story and all of its scenes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := story.ParseID(args[0])
		if err != nil {
			return err
		}
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.StoryRepo().Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		printStory(cmd.OutOrStdout(), st)
		return nil
	},
}

func printStory(w io.Writer, st *story.Story) {
	stats := story.ComputeStats(st)
	fmt.Fprintf(w, "%s\n", st.Title)
	fmt.Fprintf(w, "Theme:    %s\n", st.Theme)
	fmt.Fprintf(w, "Created:  %s\n", st.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Shape:    %d scenes, %d endings (%d winning), %d levels deep\n",
		stats.Nodes, stats.Endings, stats.WinningEndings, stats.Depth)
	fmt.Fprintf(w, "Play:     storyforge --at %s\n", router.PlayLocation(st.ID))

	ids := make([]int64, 0, len(st.Nodes))
	for id := range st.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := st.Nodes[id]
		fmt.Fprintln(w)
		label := ""
		switch {
		case n.IsRoot:
			label = " (start)"
		case n.IsWinningEnding:
			label = " (winning ending)"
		case n.IsEnding:
			label = " (ending)"
		}
		fmt.Fprintf(w, "[%d]%s\n%s\n", n.ID, label, n.Content)
		for i, o := range n.Options {
			fmt.Fprintf(w, "  %d. %s -> [%d]\n", i+1, o.Text, o.NodeID)
		}
	}
}

var storyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the shape of every stored story",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		summaries, err := s.StoryRepo().List(ctx, store.ListOpts{})
		if err != nil {
			return err
		}
		all := make([]story.Stats, 0, len(summaries))
		for _, sum := range summaries {
			st, err := s.StoryRepo().Get(ctx, sum.ID)
			if err != nil {
				return fmt.Errorf("load story %d: %w", sum.ID, err)
			}
			all = append(all, story.ComputeStats(st))
		}
		printLibraryStats(cmd.OutOrStdout(), story.Aggregate(all))
		return nil
	},
}

func printLibraryStats(w io.Writer, l story.LibraryStats) {
	if l.Stories == 0 {
		fmt.Fprintln(w, "No stories stored yet.")
		return
	}
	fmt.Fprintf(w, "Stories:          %d\n", l.Stories)
	fmt.Fprintf(w, "Scenes:           %d (avg %.1f, min %d, max %d)\n", l.Nodes, l.AvgNodes(), l.MinNodes, l.MaxNodes)
	fmt.Fprintf(w, "Endings:          %d (%d winning)\n", l.Endings, l.WinningEndings)
	fmt.Fprintf(w, "Deepest story:    %d levels\n", l.MaxDepth)
}

var storyGenerateCmd = &cobra.Command{
	Use:   "generate <theme>",
	Short: "Generate a story without the TUI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := story.CheckTheme(args[0]); err != nil {
			return err
		}
		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		log, err := stderrLogger(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		backend, err := newLocalBackend(ctx, s, cfg, log)
		if err != nil {
			return err
		}
		defer backend.Close()
		if !backend.configured {
			warnNotConfigured()
		}

		job, err := backend.jobs.CreateJob(ctx, args[0], "cli")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Generating your %s story (job %s)...\n", strings.TrimSpace(args[0]), job.ID)

		poll := cfg.Generation.PollInterval
		if poll <= 0 {
			poll = time.Second
		}
		job, err = backend.jobs.Wait(ctx, job.ID, poll)
		if err != nil {
			return err
		}
		if job.Status == story.JobFailed {
			return fmt.Errorf("story generation failed: %s", job.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Story %d created. Play it with: storyforge --at %s\n",
			job.StoryID, router.PlayLocation(job.StoryID))
		return nil
	},
}

var storyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a story as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := story.ParseID(args[0])
		if err != nil {
			return err
		}
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.StoryRepo().Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		d, err := story.FromStory(st)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
			out = f
		}
		return story.EncodeDraft(out, d)
	},
}

var storyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a story from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		d, err := story.DecodeDraft(f)
		if err != nil {
			return err
		}
		if err := storygen.Validate(d); err != nil {
			return fmt.Errorf("invalid story: %w", err)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.StoryRepo().Save(cmd.Context(), d, importSession)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported story %d: %s\n", id, d.Title)
		return nil
	},
}

var storyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := story.ParseID(args[0])
		if err != nil {
			return err
		}
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.StoryRepo().Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted story %d.\n", id)
		return nil
	},
}

func init() {
	storyListCmd.Flags().IntP("limit", "n", 20, "Number of stories to show (0 = all)")
	storyListCmd.Flags().String("theme", "", "Rank stories by how closely theme or title match")
	storyExportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	storyCmd.AddCommand(storyListCmd)
	storyCmd.AddCommand(storyShowCmd)
	storyCmd.AddCommand(storyStatsCmd)
	storyCmd.AddCommand(storyGenerateCmd)
	storyCmd.AddCommand(storyExportCmd)
	storyCmd.AddCommand(storyImportCmd)
	storyCmd.AddCommand(storyDeleteCmd)
}
