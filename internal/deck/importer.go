package deck

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/storage"
)

// Store is the part of the local store an import writes through. New items
// are stamped by the store like any other user edit so they sync.
type Store interface {
	FindVocabulary(ctx context.Context, id string) (*domain.VocabularyItem, error)
	CreateVocabulary(ctx context.Context, item *domain.VocabularyItem) error
	RecordDailyActivity(ctx context.Context, a storage.Activity) (*domain.DailyStat, error)
}

// Result summarizes one import.
type Result struct {
	Files   int
	Cards   int
	Added   int
	Skipped int
	Errors  []error
}

type Importer struct {
	store    Store
	reposDir string
	logger   *slog.Logger
}

// NewImporter creates an Importer that clones git decks under reposDir.
func NewImporter(store Store, reposDir string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, reposDir: reposDir, logger: logger}
}

// Import reads every markdown file under source, a directory or a git URL,
// and adds the cards whose ids are not stored yet. A file that fails to parse
// is reported in Result.Errors and does not stop the import.
func (im *Importer) Import(ctx context.Context, source string) (Result, error) {
	dir := source
	if IsGitURL(source) {
		dir = filepath.Join(im.reposDir, repoDirName(source))
		if err := Fetch(ctx, source, dir, im.logger); err != nil {
			return Result{}, err
		}
	}

	var res Result
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		res.Files++
		cards, parseErr := ParseFile(path)
		if parseErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("error parsing %s: %w", path, parseErr))
			return nil
		}
		return im.addCards(ctx, deckName(path), cards, &res)
	})
	if err != nil {
		return res, fmt.Errorf("error walking directory %s: %w", dir, err)
	}

	if res.Added > 0 {
		if _, err := im.store.RecordDailyActivity(ctx, storage.Activity{NewWordsAdded: res.Added}); err != nil {
			return res, err
		}
	}

	im.logger.Info("deck imported", "source", source, "files", res.Files, "cards", res.Cards, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}

func (im *Importer) addCards(ctx context.Context, deck string, cards []Card, res *Result) error {
	for _, card := range cards {
		res.Cards++
		id := ID(card)

		existing, err := im.store.FindVocabulary(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		item := &domain.VocabularyItem{
			ID:         id,
			SourceText: card.Word,
			TargetText: card.Translation,
			Notes:      card.Notes,
			Tags:       domain.Tags{deck},
		}
		if err := im.store.CreateVocabulary(ctx, item); err != nil {
			return err
		}
		res.Added++
	}
	return nil
}

// deckName tags items with the file they came from, e.g. "animals" for
// animals.md.
func deckName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
