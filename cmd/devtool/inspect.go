package main

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type InspectCommand struct{}

func (c *InspectCommand) Name() string {
	return "inspect"
}

func (c *InspectCommand) Description() string {
	return "Dump pool stats, ledger state, and top accounts from the database"
}

func (c *InspectCommand) Run(args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("limit must be a positive integer, got %q", args[0])
		}
		limit = n
	}

	dbURL := resolveDBURL()
	PrintInfo("Connecting to database: %s", redactDBURL(dbURL))

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Grouped digits for money columns; raw %d past a million is unreadable.
	p := message.NewPrinter(language.English)

	PrintHeader("Pool")
	var poolBalance, reserve, accounts int64
	err = db.QueryRow(`SELECT total_pool_balance, reward_reserve, unique_accounts FROM pool_stats WHERE id`).
		Scan(&poolBalance, &reserve, &accounts)
	if err != nil {
		return fmt.Errorf("failed to read pool stats: %v", err)
	}
	p.Printf("  Total pool balance:  %d\n", poolBalance)
	p.Printf("  Reward reserve:      %d\n", reserve)
	p.Printf("  Unique accounts:     %d\n", accounts)

	PrintHeader("Ledger state")
	var treasury, migratedTo string
	var paused bool
	err = db.QueryRow(`SELECT treasury, paused, migrated_to FROM ledger_state WHERE id`).
		Scan(&treasury, &paused, &migratedTo)
	if err != nil {
		return fmt.Errorf("failed to read ledger state: %v", err)
	}
	fmt.Printf("  Treasury:  %s\n", treasury)
	fmt.Printf("  Paused:    %v\n", paused)
	if migratedTo != "" {
		PrintWarning("  Migrated to: %s (only close-out withdrawals remain)", migratedTo)
	} else {
		fmt.Println("  Migrated:  no")
	}

	PrintHeader(fmt.Sprintf("Top %d accounts by deposit", limit))
	rows, err := db.Query(`
		SELECT account_id, total_deposited, deposit_count, created_at::date::text
		FROM stake_accounts
		ORDER BY total_deposited DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return fmt.Errorf("failed to query accounts: %v", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		found = true
		var accountID, createdAt string
		var deposited int64
		var count int
		if err := rows.Scan(&accountID, &deposited, &count, &createdAt); err != nil {
			return fmt.Errorf("failed to scan account: %v", err)
		}
		p.Printf("  %-24s  %16d units  %3d deposits  since %s\n", accountID, deposited, count, createdAt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("account iteration failed: %v", err)
	}
	if !found {
		fmt.Println("  (no accounts)")
	}

	PrintHeader(fmt.Sprintf("Last %d transfers", limit))
	trows, err := db.Query(`
		SELECT kind, account_id, amount, to_char(created_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM transfers
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return fmt.Errorf("failed to query transfers: %v", err)
	}
	defer trows.Close()

	found = false
	for trows.Next() {
		found = true
		var kind, accountID, createdAt string
		var amount int64
		if err := trows.Scan(&kind, &accountID, &amount, &createdAt); err != nil {
			return fmt.Errorf("failed to scan transfer: %v", err)
		}
		if accountID == "" {
			accountID = "-"
		}
		p.Printf("  %-14s  %-24s  %16d  %s\n", kind, accountID, amount, createdAt)
	}
	if err := trows.Err(); err != nil {
		return fmt.Errorf("transfer iteration failed: %v", err)
	}
	if !found {
		fmt.Println("  (no transfers)")
	}

	return nil
}
