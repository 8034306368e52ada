// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

//go:build integration

package store_test

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/liftlog/liftlog/internal/store"
	"github.com/liftlog/liftlog/internal/store/storetest"
)

var _ = Describe("Schema", Ordered, func() {
	var db *storetest.Database

	BeforeAll(func(ctx SpecContext) {
		var err error
		db, err = storetest.StartPostgres(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if db != nil {
			db.Terminate(context.Background())
		}
	})

	insertUser := func(ctx context.Context, id, username, email string) error {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, 'x')`,
			id, username, email)
		return err
	}

	constraintOf := func(err error) string {
		var pgErr *pgconn.PgError
		Expect(errors.As(err, &pgErr)).To(BeTrue())
		Expect(pgErr.Code).To(Equal(pgerrcode.UniqueViolation))
		return pgErr.ConstraintName
	}

	It("answers a ping through Connect", func(ctx SpecContext) {
		pool, err := store.Connect(ctx, db.URL, 1)
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()
		Expect(store.Ping(ctx, pool, 1)).To(Succeed())
	})

	It("names the username and email unique constraints", func(ctx SpecContext) {
		Expect(insertUser(ctx, "u1", "lifter", "lifter@example.com")).To(Succeed())
		Expect(constraintOf(insertUser(ctx, "u2", "lifter", "other@example.com"))).To(Equal("users_username_key"))
		Expect(constraintOf(insertUser(ctx, "u3", "other", "lifter@example.com"))).To(Equal("users_email_key"))
	})

	It("cascades deletes from users to workouts and exercises", func(ctx SpecContext) {
		Expect(insertUser(ctx, "u-cascade", "cascade", "cascade@example.com")).To(Succeed())
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO workouts (id, user_id, name, description) VALUES ('w1', 'u-cascade', 'Legs', 'Squats')`)
		Expect(err).NotTo(HaveOccurred())
		_, err = db.Pool.Exec(ctx,
			`INSERT INTO exercises (id, workout_id, name, weight, repetitions) VALUES ('e1', 'w1', 'Squat', 100.5, 5)`)
		Expect(err).NotTo(HaveOccurred())

		_, err = db.Pool.Exec(ctx, `DELETE FROM users WHERE id = 'u-cascade'`)
		Expect(err).NotTo(HaveOccurred())

		var count int
		Expect(db.Pool.QueryRow(ctx, `SELECT count(*) FROM exercises WHERE id = 'e1'`).Scan(&count)).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("rejects negative measurements", func(ctx SpecContext) {
		Expect(insertUser(ctx, "u-neg", "negative", "negative@example.com")).To(Succeed())
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO workouts (id, user_id, name, description) VALUES ('w-neg', 'u-neg', 'Arms', 'Curls')`)
		Expect(err).NotTo(HaveOccurred())

		_, err = db.Pool.Exec(ctx,
			`INSERT INTO exercises (id, workout_id, name, weight, repetitions) VALUES ('e-neg', 'w-neg', 'Curl', -1, 5)`)
		var pgErr *pgconn.PgError
		Expect(errors.As(err, &pgErr)).To(BeTrue())
		Expect(pgErr.Code).To(Equal(pgerrcode.CheckViolation))
	})
})
