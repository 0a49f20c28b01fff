package engine_test

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/modsetup/internal/actions"
	"github.com/imamik/modsetup/internal/config"
	"github.com/imamik/modsetup/internal/engine"
	"github.com/imamik/modsetup/internal/markers"
	modtest "github.com/imamik/modsetup/internal/testing"
)

var _ = Describe("Setup scenarios", func() {
	var (
		ws      *modtest.Workspace
		workDir string
		store   *markers.Store
		eng     *engine.Engine
		done    chan error
		cancel  context.CancelFunc
	)

	startEngine := func(steps []config.Step) {
		runner := actions.NewRunner(
			actions.WithBaseDir(workDir),
			actions.WithDeletePolicy(10, time.Millisecond),
			actions.WithLogger(logr.Discard()),
		)

		var err error
		eng, err = engine.New(steps, runner,
			engine.WithBaseDir(workDir),
			engine.WithSettleDelay(time.Millisecond),
			engine.WithObserver(engine.NewLogObserver(logr.Discard())),
			engine.WithOnComplete(func(context.Context) error {
				return store.Complete()
			}),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Begin(eng.RunID())).To(Succeed())

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		go func() {
			done <- eng.Run(ctx)
		}()
	}

	settledAt := func(index int) func() bool {
		return func() bool {
			s := eng.Snapshot()
			return !s.Busy && !s.Completed && s.Index == index
		}
	}

	BeforeEach(func() {
		ws = modtest.NewWorkspace(GinkgoT())
		workDir = ws.Dir
		store = markers.New(workDir)
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive())
	})

	Context("with a skippable intro, a copy step and a final page", func() {
		BeforeEach(func() {
			ws.WithFile("a.txt", "payload")
			startEngine([]config.Step{
				modtest.NewStep("intro").Build(),
				modtest.NewStep("copy").WithActions(modtest.Copy("a.txt", "b/a.txt")).Required().Build(),
				modtest.NewStep("done").Required().Build(),
			})
		})

		It("skips, copies and completes", func() {
			eng.Send(engine.IntentSkip)
			Eventually(settledAt(1)).Should(BeTrue())
			Expect(ws.Exists("b")).To(BeFalse())

			eng.Send(engine.IntentConfirm)
			Eventually(settledAt(2)).Should(BeTrue())
			Expect(ws.Read("b/a.txt")).To(Equal("payload"))

			st, err := store.Inspect()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.State).To(Equal(markers.StateRunning))

			eng.Send(engine.IntentConfirm)
			Eventually(done).Should(Receive(BeNil()))
			done <- nil

			Expect(eng.Snapshot().Completed).To(BeTrue())
			st, err = store.Inspect()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.State).To(Equal(markers.StateCompleted))
			Expect(store.InProgressPath()).NotTo(BeAnExistingFile())
		})
	})

	Context("with a branch that loops back to the start", func() {
		BeforeEach(func() {
			startEngine([]config.Step{
				modtest.NewStep("zero").Build(),
				modtest.NewStep("one").Build(),
				modtest.NewStep("did it work?").Branch([]config.Action{modtest.Jump(0)}, nil).Build(),
				modtest.NewStep("after").Build(),
			})
			eng.Send(engine.IntentConfirm)
			Eventually(settledAt(1)).Should(BeTrue())
			eng.Send(engine.IntentConfirm)
			Eventually(settledAt(2)).Should(BeTrue())
		})

		It("shows the yes/no controls", func() {
			c := eng.Snapshot().Controls
			Expect(c.Branch).To(BeTrue())
			Expect(c.Yes).To(BeTrue())
			Expect(c.No).To(BeTrue())
			Expect(c.Confirm).To(BeFalse())
		})

		It("advances on no", func() {
			eng.Send(engine.IntentChooseNo)
			Eventually(settledAt(3)).Should(BeTrue())
			Expect(eng.Snapshot().Text).To(Equal("after"))
		})

		It("returns to step 0 on yes", func() {
			eng.Send(engine.IntentChooseYes)
			Eventually(settledAt(0)).Should(BeTrue())
			Expect(eng.Snapshot().Text).To(Equal("zero"))
		})
	})

	Context("with file cleanup", func() {
		BeforeEach(func() {
			ws.WithFile("src/nested/f.txt", "f")
			startEngine([]config.Step{
				modtest.NewStep("").WithActions(
					modtest.Move("src", "dst"),
					modtest.Delete("missing-1", "missing-2"),
				).Build(),
				modtest.NewStep("end").Build(),
			})
		})

		It("moves the tree and tolerates missing paths", func() {
			eng.Send(engine.IntentConfirm)
			Eventually(settledAt(1)).Should(BeTrue())

			Expect(ws.Exists("src")).To(BeFalse())
			Expect(ws.Read("dst/nested/f.txt")).To(Equal("f"))
		})
	})
})
