package main

import (
	"errors"
	"fmt"

	"booksapi/db"
	"booksapi/internal/book"

	"github.com/urfave/cli/v2"
)

var sampleBooks = []book.Book{
	{
		ISBN:      "0691161518",
		AmazonURL: "http://a.co/eobPtX2",
		Author:    "Matthew Lane",
		Language:  "english",
		Pages:     264,
		Publisher: "Princeton University Press",
		Title:     "Power-Up: Unlocking the Hidden Mathematics in Video Games",
		Year:      2017,
	},
	{
		ISBN:      "0070342075",
		AmazonURL: "https://www.amazon.com/dp/0070342075/?coliid=I3PJ9U4OTA9EXQ&colid=2XF17GS8UBLC2&psc=0&ref_=lv_ov_lig_dp_it",
		Author:    "Brian W. Kernighan",
		Language:  "english",
		Pages:     168,
		Publisher: "McGraw-Hill",
		Title:     "The Elements of Programming Style",
		Year:      1978,
	},
}

func seed(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	pool, err := openDB(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if c.Bool("init-schema") {
		if _, err := pool.Exec(ctx, db.Schema); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	if c.Bool("reset") {
		tag, err := pool.Exec(ctx, "DELETE FROM books")
		if err != nil {
			return fmt.Errorf("reset books: %w", err)
		}
		logger.WithField("deleted", tag.RowsAffected()).Info("books table cleared")
	}

	service := book.NewService(book.NewPostgresRepo(pool, cfg.QueryTimeout))
	inserted := 0
	for _, b := range sampleBooks {
		if _, err := service.Create(ctx, b); err != nil {
			if errors.Is(err, book.ErrConflict) {
				logger.WithField("isbn", b.ISBN).Info("book already present, skipped")
				continue
			}
			return fmt.Errorf("seed %s: %w", b.ISBN, err)
		}
		inserted++
	}

	logger.WithField("inserted", inserted).Info("seed complete")
	return nil
}
