package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conorfennell/wordsync/internal/deck"
	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/srs"
	"github.com/conorfennell/wordsync/internal/storage"
	"github.com/conorfennell/wordsync/internal/study"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir|git-url>",
		Short: "Import markdown flashcard decks from a directory or git repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			res, err := deck.NewImporter(db, a.cfg.Decks.ReposDir, a.logger).Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d cards in %d files: %d added, %d skipped, %d errors.\n",
				res.Cards, res.Files, res.Added, res.Skipped, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintf(out, "- %s\n", e)
			}
			return nil
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var tags []string
	var notes string
	cmd := &cobra.Command{
		Use:   "add <word> <translation>",
		Short: "Add a vocabulary item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			item := &domain.VocabularyItem{
				ID:         uuid.NewString(),
				SourceText: args[0],
				TargetText: args[1],
				Tags:       tags,
				Notes:      notes,
			}
			if err := db.CreateVocabulary(cmd.Context(), item); err != nil {
				return err
			}
			if _, err := db.RecordDailyActivity(cmd.Context(), storage.Activity{NewWordsAdded: 1}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach, repeatable")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vocabulary items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			items, err := db.ListVocabulary(cmd.Context(), all)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWORD\tTRANSLATION\tSTATUS")
			for _, item := range items {
				status := string(item.Status)
				if item.IsDeleted {
					status = "deleted"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.SourceText, item.TargetText, status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include deleted items not yet purged by a sync")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vocabulary item on every device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			return db.SoftDeleteVocabulary(cmd.Context(), args[0])
		},
	}
}

func newReviewCommand(a *app) *cobra.Command {
	var reverse bool
	cmd := &cobra.Command{
		Use:   "review <id> <quality>",
		Short: "Grade an answer from 0 (blackout) to 5 (perfect)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quality %q: %w", args[1], err)
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			dir := domain.Forward
			if reverse {
				dir = domain.Reverse
			}
			out, err := study.New(db, nil).Answer(cmd.Context(), args[0], srs.Quality(q), dir)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "The card was shown translation first")
	return cmd
}
