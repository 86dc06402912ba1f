package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hqtrivia-bot/internal/app"
	"hqtrivia-bot/internal/domain"
	"hqtrivia-bot/internal/infra/cache"
)

// Admin implements the evidence-cache maintenance verbs. Every verb
// derives the referenced URL set from the stored game records, so the
// cache only ever keeps pages a replay could still ask for.
type Admin struct {
	store         cache.Store
	records       app.RecordStore
	fetcher       *Fetcher
	dumpDir       string
	searchBase    string
	referenceBase string
	out           io.Writer
}

func NewAdmin(store cache.Store, records app.RecordStore, fetcher *Fetcher, dumpDir, searchBase, referenceBase string, out io.Writer) *Admin {
	return &Admin{
		store:         store,
		records:       records,
		fetcher:       fetcher,
		dumpDir:       dumpDir,
		searchBase:    searchBase,
		referenceBase: referenceBase,
		out:           out,
	}
}

// Prune deletes every cached URL no stored game references.
func (a *Admin) Prune(ctx context.Context) error {
	referenced, err := a.referencedURLs(ctx)
	if err != nil {
		return err
	}
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return err
	}
	var stale []string
	for _, key := range keys {
		if _, ok := referenced[key]; !ok {
			stale = append(stale, key)
		}
	}
	fmt.Fprintf(a.out, "Found %d/%d stale entries\n", len(stale), len(keys))
	for _, key := range stale {
		fmt.Fprintf(a.out, "Deleting stale entry: %s\n", key)
		if err := a.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Refresh warms every referenced URL missing from the cache. Rate
// limiting aborts with the number of pages fetched so far.
func (a *Admin) Refresh(ctx context.Context) error {
	referenced, err := a.referencedURLs(ctx)
	if err != nil {
		return err
	}
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return err
	}
	cached := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		cached[key] = struct{}{}
	}
	var misses []string
	for _, url := range sortedKeys(referenced) {
		if _, ok := cached[url]; !ok {
			misses = append(misses, url)
		}
	}
	fmt.Fprintf(a.out, "Found %d/%d URLs not in cache\n", len(misses), len(referenced))
	for i, url := range misses {
		fmt.Fprintf(a.out, "Adding cached entry: %s\n", url)
		if err := a.fetcher.Warm(ctx, url); err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				return fmt.Errorf("cached %d pages: %w", i, err)
			}
			return err
		}
	}
	return nil
}

// Vacuum drops empty or undecodable cache entries.
func (a *Admin) Vacuum(ctx context.Context) error {
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for _, key := range keys {
		value, ok, err := a.store.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok && decodes(value) {
			continue
		}
		if err := a.store.Delete(ctx, key); err != nil {
			return err
		}
		removed++
	}
	fmt.Fprintf(a.out, "Removed %d/%d broken entries\n", removed, len(keys))
	return nil
}

// Export writes one dump file per stored round containing that round's
// cached responses. Existing dump files are left alone.
func (a *Admin) Export(ctx context.Context) error {
	roundIDs, err := a.records.List(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.dumpDir, 0o755); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}
	for _, roundID := range roundIDs {
		path := filepath.Join(a.dumpDir, roundID+".json")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		record, err := a.records.Get(ctx, roundID)
		if err != nil {
			return err
		}
		dump := make(map[string]json.RawMessage)
		for _, url := range a.recordURLs(record) {
			value, ok, err := a.store.Get(ctx, url)
			if err != nil {
				return err
			}
			if ok {
				dump[url] = json.RawMessage(value)
			}
		}
		if len(dump) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "Exporting %s\n", roundID)
		data, err := json.MarshalIndent(dump, "", "    ")
		if err != nil {
			return fmt.Errorf("encode dump %s: %w", roundID, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write dump %s: %w", roundID, err)
		}
	}
	return nil
}

// Import loads every dump file in the dump dir back into the cache.
func (a *Admin) Import(ctx context.Context) error {
	entries, err := os.ReadDir(a.dumpDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list dump dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(a.dumpDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read dump %s: %w", entry.Name(), err)
		}
		var dump map[string]json.RawMessage
		if err := json.Unmarshal(data, &dump); err != nil {
			return fmt.Errorf("decode dump %s: %w", entry.Name(), err)
		}
		fmt.Fprintf(a.out, "Importing %s\n", entry.Name())
		for url, value := range dump {
			if err := a.store.Set(ctx, url, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// referencedURLs is the set of every URL any stored question could query.
func (a *Admin) referencedURLs(ctx context.Context) (map[string]struct{}, error) {
	roundIDs, err := a.records.List(ctx)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]struct{})
	for _, roundID := range roundIDs {
		record, err := a.records.Get(ctx, roundID)
		if err != nil {
			return nil, err
		}
		for _, url := range a.recordURLs(record) {
			referenced[url] = struct{}{}
		}
	}
	return referenced, nil
}

func (a *Admin) recordURLs(record *domain.GameRecord) []string {
	var urls []string
	for _, question := range record.Questions {
		if len(question.Answers) < domain.AnswerCount {
			continue
		}
		urls = append(urls, QueryURLs(a.searchBase, a.referenceBase, question.Text, question.Answers)...)
	}
	return urls
}

func decodes(value []byte) bool {
	if len(value) == 0 {
		return false
	}
	var resp response
	return json.Unmarshal(value, &resp) == nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	// Stable order keeps refresh output and rate-limit progress counts
	// reproducible.
	sort.Strings(keys)
	return keys
}
