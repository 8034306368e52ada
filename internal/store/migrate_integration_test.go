// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

//go:build integration

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/liftlog/liftlog/internal/store"
	"github.com/liftlog/liftlog/internal/store/storetest"
)

var _ = Describe("Migrator", Ordered, func() {
	var (
		db       *storetest.Database
		migrator *store.Migrator
	)

	BeforeAll(func(ctx SpecContext) {
		var err error
		db, err = storetest.StartPostgres(ctx)
		Expect(err).NotTo(HaveOccurred())

		// StartPostgres migrated the database; start from empty.
		migrator, err = store.NewMigrator(db.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Down()).To(Succeed())
	})

	AfterAll(func() {
		if migrator != nil {
			Expect(migrator.Close()).To(Succeed())
		}
		if db != nil {
			db.Terminate(context.Background())
		}
	})

	It("starts at version zero", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1, 2, 3, 4}))
	})

	It("applies every migration", func() {
		Expect(migrator.Up()).To(Succeed())

		st, err := migrator.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Version).To(Equal(uint(4)))
		Expect(st.Name).To(Equal("000004_create_exercises"))
		Expect(st.Pending).To(BeEmpty())
	})

	It("steps down and back up", func() {
		Expect(migrator.Steps(-1)).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(3)))

		Expect(migrator.Steps(1)).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(4)))
	})

	It("forces a version without running migrations", func() {
		Expect(migrator.Force(2)).To(Succeed())
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
		Expect(dirty).To(BeFalse())

		Expect(migrator.Force(4)).To(Succeed())
	})

	It("rolls everything back", func() {
		Expect(migrator.Down()).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
	})
})
