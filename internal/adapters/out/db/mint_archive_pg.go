// internal/adapters/out/db/mint_archive_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	sessdom "bulkminter/internal/domain/session"
)

// MintArchivePG は完了したセッションの結果を PostgreSQL に追記します。
// minting.CompletionNotifier を満たします。分析・サポート照会用の
// アーカイブであり、進行状態の source of truth は Firestore 側です。
type MintArchivePG struct {
	Client *sql.DB
}

func NewMintArchivePG(client *sql.DB) *MintArchivePG {
	return &MintArchivePG{Client: client}
}

// OpenPostgres は lib/pq で接続を張り、疎通を確認します。
func OpenPostgres(host, port, user, password, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	dbc, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	dbc.SetConnMaxLifetime(30 * time.Minute)
	dbc.SetMaxOpenConns(25)
	dbc.SetMaxIdleConns(25)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := dbc.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	log.Println("[DB] Connected to PostgreSQL successfully")
	return dbc, nil
}

const insertArchiveRow = `
INSERT INTO mint_archive (
	session_id, owner_wallet, item_index, name, category,
	mint_address, tx_id, status, archived_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (session_id, item_index) DO UPDATE SET
	mint_address = EXCLUDED.mint_address,
	tx_id        = EXCLUDED.tx_id,
	status       = EXCLUDED.status,
	archived_at  = EXCLUDED.archived_at
`

// NotifyCompleted は全レコードを 1 トランザクションで upsert します。
func (a *MintArchivePG) NotifyCompleted(ctx context.Context, s *sessdom.MintSession) error {
	if a == nil || a.Client == nil {
		return errors.New("mint_archive_pg: db client is nil")
	}
	if s == nil {
		return errors.New("mint_archive_pg: session is nil")
	}

	tx, err := a.Client.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i := range s.Records {
		rec := &s.Records[i]

		// mint/tx は成功アイテムにしか無い。失敗アイテムは空で残す。
		mintAddr, txID := "", ""
		if rcpt := s.Receipts[i]; rcpt != nil {
			mintAddr = rcpt.MintAddress
			txID = rcpt.TxID
		}

		if _, err := tx.ExecContext(ctx, insertArchiveRow,
			s.ID, s.OwnerWallet, i, rec.Name, string(rec.Category),
			mintAddr, txID, string(rec.Status), now,
		); err != nil {
			return fmt.Errorf("insert archive row session=%s index=%d: %w", s.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive: %w", err)
	}

	ok, failed := s.Summary()
	log.Printf("[mint_archive] archived sessionId=%q rows=%d succeeded=%d failed=%d",
		s.ID, len(s.Records), ok, failed)
	return nil
}
