// Package store persists finished Evaluations to a relational
// database: one mev_inspections row per transaction, one internal_calls
// row per non-pruned frame, one event_logs row per log, plus the static
// reference tables (known_bots, ignored_targets, protocols,
// addressbook) seeded from pkg/addresses.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	_ "github.com/mattn/go-sqlite3"

	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/evaluator"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

const defaultTable = "mev_inspections"

// Config controls how a Store opens its database.
type Config struct {
	// Table overrides the mev_inspections table name. Child tables keep
	// their fixed names; only the parent is overridable.
	Table string
	// Reset drops and recreates the whole schema on open.
	Reset bool
	// Overwrite makes Save replace an existing row for the same hash
	// instead of leaving it untouched.
	Overwrite bool
}

// Store writes Evaluations and reads them back. Safe for concurrent
// use; the underlying *sql.DB pools connections.
type Store struct {
	db        *sql.DB
	table     string
	overwrite bool
}

// Open opens (or creates) the sqlite database at dsn and ensures the
// schema exists. Use ":memory:" for an ephemeral database.
func Open(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorage, dsn, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s := &Store{db: db, table: table, overwrite: cfg.Overwrite}
	if cfg.Reset {
		if err := s.drop(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) drop(ctx context.Context) error {
	// Children first so the FKs never dangle mid-drop.
	for _, table := range []string{"event_logs", "internal_calls", s.table, "known_bots", "ignored_targets", "protocols", "addressbook"} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("%w: drop %s: %v", ErrStorage, table, err)
		}
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(schema, s.table)); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrStorage, err)
	}
	return s.seed(ctx)
}

// seed fills the reference tables from the static address sets. All
// inserts are idempotent so reopening an existing database is a no-op.
func (s *Store) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	for addr, label := range addresses.ADDRESSBOOK {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO addressbook (address, label) VALUES (?, ?)", addr.Hex(), label); err != nil {
			return fmt.Errorf("%w: seed addressbook: %v", ErrStorage, err)
		}
		if addresses.KnownBot(addr) {
			if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO known_bots (address, label) VALUES (?, ?)", addr.Hex(), label); err != nil {
				return fmt.Errorf("%w: seed known_bots: %v", ErrStorage, err)
			}
		}
	}
	for addr := range addresses.FILTER {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO ignored_targets (address) VALUES (?)", addr.Hex()); err != nil {
			return fmt.Errorf("%w: seed ignored_targets: %v", ErrStorage, err)
		}
	}
	for p := trace.ProtocolUniswap; p <= trace.ProtocolFlashloan; p++ {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO protocols (name) VALUES (?)", p.String()); err != nil {
			return fmt.Errorf("%w: seed protocols: %v", ErrStorage, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Exists reports whether a row for hash is already present.
func (s *Store) Exists(ctx context.Context, hash common.Hash) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+s.table+" WHERE hash = ?", hash.Hex()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return n > 0, nil
}

// Save upserts one Evaluation and its child rows inside a single
// transaction. Without Overwrite, an existing row for the same hash is
// left untouched and Save returns nil, so re-running a block range is
// idempotent.
func (s *Store) Save(ctx context.Context, eval *evaluator.Evaluation) error {
	insp := eval.Inspection

	if !s.overwrite {
		exists, err := s.Exists(ctx, insp.Hash)
		if err != nil {
			return err
		}
		if exists {
			log.Debug("Row already present, skipping", "txHash", insp.Hash.Hex())
			return nil
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	// REPLACE deletes the old parent row first, and the FK cascade
	// sweeps the stale child rows with it.
	var proxy any
	if insp.ProxyImpl != nil {
		proxy = insp.ProxyImpl.Hex()
	}
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO "+s.table+
			" (hash, status, block_number, gas_price, gas_used, revenue, protocols, actions, eoa, contract, proxy_impl, transaction_position)"+
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		insp.Hash.Hex(),
		insp.Status.String(),
		insp.Block,
		decOrZero(eval.GasPrice),
		eval.GasUsed,
		decOrZero(eval.Revenue),
		joinProtocols(insp),
		joinActions(eval.Actions),
		insp.Sender.Hex(),
		insp.Contract.Hex(),
		proxy,
		insp.TransactionPosition,
	)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", ErrStorage, s.table, err)
	}

	for i := range insp.Frames {
		f := &insp.Frames[i]
		cls := classificationOf(insp, f.TraceAddress)
		if cls == "" {
			continue // pruned
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO internal_calls"+
				" (transaction_hash, trace_address, call_type, value, gas_used, caller, callee, protocol, input, classification)"+
				" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			insp.Hash.Hex(),
			joinTraceAddress(f.TraceAddress),
			f.CallType.String(),
			decOrZero(f.Value),
			u64OrZero(f.GasUsed),
			f.From.Hex(),
			f.To.Hex(),
			protocolOf(f.To),
			f.Input,
			cls,
		)
		if err != nil {
			return fmt.Errorf("%w: insert internal_calls: %v", ErrStorage, err)
		}
	}

	for _, l := range insp.Logs {
		topics := make([]string, len(l.Topics))
		for i, t := range l.Topics {
			topics[i] = t.Hex()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO event_logs"+
				" (address, transaction_hash, signature, topics, data, transaction_index, log_index, block_number)"+
				" VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			l.Address.Hex(),
			insp.Hash.Hex(),
			l.Signature.Hex(),
			strings.Join(topics, ","),
			l.Data,
			insp.TransactionPosition,
			l.LogIndex,
			insp.Block,
		)
		if err != nil {
			return fmt.Errorf("%w: insert event_logs: %v", ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Record is the logical mev_inspections row read back from the store.
type Record struct {
	Hash                common.Hash
	Status              string
	Block               uint64
	GasPrice            *uint256.Int
	GasUsed             uint64
	Revenue             *uint256.Int
	Protocols           []string
	Actions             []string
	Sender              common.Address
	Contract            common.Address
	ProxyImpl           *common.Address
	TransactionPosition uint
}

// Inspection reads one row back by transaction hash.
func (s *Store) Inspection(ctx context.Context, hash common.Hash) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT hash, status, block_number, gas_price, gas_used, revenue, protocols, actions, eoa, contract, proxy_impl, transaction_position FROM "+
			s.table+" WHERE hash = ?", hash.Hex())

	var (
		r                                      Record
		hashHex, gasPrice, revenue, eoa, contr string
		protocols, actions                     string
		proxy                                  sql.NullString
	)
	err := row.Scan(&hashHex, &r.Status, &r.Block, &gasPrice, &r.GasUsed, &revenue, &protocols, &actions, &eoa, &contr, &proxy, &r.TransactionPosition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	r.Hash = common.HexToHash(hashHex)
	r.Sender = common.HexToAddress(eoa)
	r.Contract = common.HexToAddress(contr)
	if proxy.Valid {
		a := common.HexToAddress(proxy.String)
		r.ProxyImpl = &a
	}
	if r.GasPrice, err = decToU256(gasPrice); err != nil {
		return nil, err
	}
	if r.Revenue, err = decToU256(revenue); err != nil {
		return nil, err
	}
	r.Protocols = splitList(protocols)
	r.Actions = splitList(actions)
	return &r, nil
}

// Delete removes a row and, through the FK cascade, its child rows.
func (s *Store) Delete(ctx context.Context, hash common.Hash) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table+" WHERE hash = ?", hash.Hex()); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// classificationOf maps a frame's final classification to its enum
// column value, or "" for pruned frames which are not persisted.
func classificationOf(insp *trace.Inspection, addr trace.TraceAddress) string {
	for _, a := range insp.Actions {
		if !a.TraceAddress.Equal(addr) {
			continue
		}
		switch a.Kind {
		case trace.Known:
			return a.Action.Kind.String()
		case trace.Prune:
			return ""
		default:
			return "unknown"
		}
	}
	// No surviving entry at this address (compacted away).
	return ""
}

func protocolOf(to common.Address) string {
	if p, ok := addresses.UNISWAP[to]; ok {
		return p.String()
	}
	return ""
}

func joinProtocols(insp *trace.Inspection) string {
	names := make([]string, 0, len(insp.Protocols))
	for p := range insp.Protocols {
		names = append(names, p.String())
	}
	// Map iteration order is random; the column is a set, but a stable
	// ordering keeps replayed runs byte-identical.
	sort.Strings(names)
	return strings.Join(names, ",")
}

func joinActions(kinds []trace.ActionKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func joinTraceAddress(addr trace.TraceAddress) string {
	parts := make([]string, len(addr))
	for i, v := range addr {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func decOrZero(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

func u64OrZero(v *uint256.Int) uint64 {
	if v == nil || !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}

func decToU256(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad numeric column %q: %v", ErrStorage, s, err)
	}
	return v, nil
}
