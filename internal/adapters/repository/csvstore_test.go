package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeTable(t *testing.T, root, tournament, name, content string) {
	t.Helper()
	dir := filepath.Join(root, tournament)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCSVStore_LoadEntries(t *testing.T) {
	Convey("Given a tournament entry table", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		writeTable(t, root, "greenhill", "entries.csv",
			"\ufeffInstitution , Entry,Code,hash\n"+
				"Greenhill,Jane Doe,GH JD,old\n"+
				"\"Lincoln, NE\",  Bob Jones ,LN BJ\n"+
				"Short\n")
		store := repository.NewCSVStore(root)

		Convey("When loading entries", func() {
			regs, err := store.LoadEntries(ctx, "greenhill")

			Convey("Then headers should be matched loosely and cells trimmed", func() {
				So(err, ShouldBeNil)
				So(regs, ShouldHaveLength, 3)
				So(regs[0], ShouldResemble, model.Registration{Affiliation: "Greenhill", Name: "Jane Doe", Code: "GH JD"})
				So(regs[1], ShouldResemble, model.Registration{Affiliation: "Lincoln, NE", Name: "Bob Jones", Code: "LN BJ"})
			})

			Convey("Then short rows should yield blank cells", func() {
				So(regs[2], ShouldResemble, model.Registration{Affiliation: "Short"})
			})
		})

		Convey("When the tournament does not exist", func() {
			_, err := store.LoadEntries(ctx, "nowhere")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a required column is missing", func() {
			writeTable(t, root, "broken", "entries.csv", "School,Entry,Code\nA,B,C\n")
			_, err := store.LoadEntries(ctx, "broken")

			Convey("Then ErrMalformedTable should be returned", func() {
				So(errors.Is(err, repository.ErrMalformedTable), ShouldBeTrue)
			})
		})

		Convey("When the entry table is empty", func() {
			writeTable(t, root, "empty", "entries.csv", "")
			_, err := store.LoadEntries(ctx, "empty")

			Convey("Then ErrMalformedTable should be returned", func() {
				So(errors.Is(err, repository.ErrMalformedTable), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.LoadEntries(cctx, "greenhill")

			Convey("Then the context error should be returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestCSVStore_Rounds(t *testing.T) {
	Convey("Given a tournament with several round files", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		writeTable(t, root, "toc", "entries.csv", "Institution,Entry,Code\nA,B,C\n")
		writeTable(t, root, "toc", "entries_backup.csv", "Institution,Entry,Code\n")
		writeTable(t, root, "toc", "round2.csv", "Aff,Neg,Win\nC,D,Neg\n")
		writeTable(t, root, "toc", "round1.csv", "Aff,Neg,Win\nC,D,Aff\n,D,\n")
		writeTable(t, root, "toc", "notes.txt", "ignore me")
		writeTable(t, root, "toc", "octos.csv", "aff,neg,win\nC,BYE,\n")
		store := repository.NewCSVStore(root)

		Convey("When listing rounds", func() {
			rounds, err := store.ListRounds(ctx, "toc")

			Convey("Then entry tables and other files should be excluded and names sorted", func() {
				So(err, ShouldBeNil)
				So(rounds, ShouldResemble, []string{"octos", "round1", "round2"})
			})
		})

		Convey("When loading one round", func() {
			rows, err := store.LoadRound(ctx, "toc", "round1")

			Convey("Then rows should keep their raw text", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, []model.RoundRow{
					{First: "C", Second: "D", Outcome: "Aff"},
					{First: "", Second: "D", Outcome: ""},
				})
			})
		})

		Convey("When loading a missing round", func() {
			_, err := store.LoadRound(ctx, "toc", "finals")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When loading the whole tournament", func() {
			tour, err := store.LoadTournament(ctx, "toc")

			Convey("Then entries and rounds should be bundled in order", func() {
				So(err, ShouldBeNil)
				So(tour.Name, ShouldEqual, "toc")
				So(tour.Entries, ShouldHaveLength, 1)
				So(tour.Rounds, ShouldHaveLength, 3)
				So(tour.Rounds[0].Name, ShouldEqual, "octos")
				So(tour.Rounds[0].Rows[0].Second, ShouldEqual, "BYE")
				So(tour.Rounds[2].Rows[0].Outcome, ShouldEqual, "Neg")
			})
		})

		Convey("When listing a missing tournament", func() {
			_, err := store.ListRounds(ctx, "nationals")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestCSVStore_Options(t *testing.T) {
	Convey("Given a store with a custom delimiter and entry file", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		writeTable(t, root, "t1", "teams.csv", "Institution;Entry;Code\nA;Ann & Bo;X1\n")
		writeTable(t, root, "t1", "r1.csv", "Aff;Neg;Win\nX1;X2;aff\n")
		store := repository.NewCSVStore(root, repository.WithComma(';'), repository.WithEntriesFile("teams.csv"))

		Convey("Then tables should be parsed with the options", func() {
			tour, err := store.LoadTournament(ctx, "t1")
			So(err, ShouldBeNil)
			So(store.Root(), ShouldEqual, root)
			So(tour.Entries[0].Name, ShouldEqual, "Ann & Bo")
			So(tour.Rounds, ShouldHaveLength, 1)
			So(tour.Rounds[0].Rows[0].First, ShouldEqual, "X1")
		})
	})
}
