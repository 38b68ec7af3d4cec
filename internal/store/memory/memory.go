// Package memory is a mutex-guarded in-process transaction store, used as
// the default backend for local runs and in handler tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"bilancio/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New(seed []core.Transaction) *Store {
	items := make([]core.Transaction, len(seed))
	copy(items, seed)
	return &Store{items: items}
}

// NewFromFiles seeds the store from base/seed_transactions.txt if present.
// Each non-comment line is "date|kind|amount|description[|status[|category[|subcategory]]]".
func NewFromFiles(base string) *Store {
	return New(readSeed(filepath.Join(base, "seed_transactions.txt")))
}

// ListTransactions returns a copy of the stored set, insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Append stores the transaction and returns its id, minting one when the
// caller left it empty.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = core.StatusDue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == t.ID {
			return "", fmt.Errorf("duplicate transaction id %s", t.ID)
		}
	}
	s.items = append(s.items, t)
	return t.ID, nil
}

// MarkOverdue flips the listed transactions from due to overdue.
func (s *Store) MarkOverdue(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if _, ok := wanted[s.items[i].ID]; ok && s.items[i].Status == core.StatusDue {
			s.items[i].Status = core.StatusOverdue
		}
	}
	return nil
}

func readSeed(path string) []core.Transaction {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []core.Transaction
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseSeedLine(line)
		if err != nil {
			continue // skip malformed seed lines rather than fail startup
		}
		out = append(out, t)
	}
	return out
}

func parseSeedLine(line string) (core.Transaction, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 4 {
		return core.Transaction{}, fmt.Errorf("seed line needs at least 4 fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	date, err := core.ParseDate(fields[0])
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(fields[2])
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		Kind:        core.Kind(fields[1]),
		Amount:      amount,
		Date:        date,
		Description: fields[3],
		Status:      core.StatusDue,
	}
	if len(fields) > 4 && fields[4] != "" {
		t.Status = core.Status(fields[4])
	}
	if len(fields) > 5 && fields[5] != "" {
		t.Category = &core.CategoryRef{Name: fields[5]}
	}
	if len(fields) > 6 && fields[6] != "" {
		t.Subcategory = &core.CategoryRef{Name: fields[6]}
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
