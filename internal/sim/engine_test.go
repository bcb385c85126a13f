package sim_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/metrics"
	"github.com/san-kum/fdmsim/internal/output"
	"github.com/san-kum/fdmsim/internal/props"
	"github.com/san-kum/fdmsim/internal/sim"
	"github.com/san-kum/fdmsim/internal/trim"
	"github.com/san-kum/fdmsim/internal/units"
	"github.com/san-kum/fdmsim/internal/xmldoc"
)

const repoRoot = "../.."

var scriptPath = filepath.Join(repoRoot, "scripts", "c172_cruise.xml")

type nanIntegrator struct{}

func (nanIntegrator) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	out := x.Clone()
	out[0] = math.NaN()
	return out
}

var _ = Describe("Engine", func() {
	var (
		e      *sim.Engine
		outDir string
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		outDir = GinkgoT().TempDir()
		cfg := config.DefaultConfig()
		cfg.RootDir = repoRoot
		cfg.OutputDir = outDir

		var err error
		e, err = sim.New(cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(e.Close)
	})

	prop := func(path string) float64 {
		GinkgoHelper()
		v, err := e.GetProperty(path)
		Expect(err).NotTo(HaveOccurred(), path)
		return v
	}

	load := func(icFile string) {
		GinkgoHelper()
		Expect(e.LoadModel("c172x")).To(Succeed())
		Expect(e.LoadInitialConditions(icFile, true)).To(Succeed())
	}

	Describe("loading", func() {
		It("loads an aircraft by name", func() {
			Expect(e.LoadModel("c172x")).To(Succeed())
			Expect(e.Phase()).To(Equal(sim.ModelLoaded))
			Expect(e.Aircraft().Weight).To(BeNumerically("~", 2300, 1e-9))
		})

		It("rejects missing and incomplete aircraft", func() {
			Expect(e.LoadModel("c172x")).To(Succeed())

			err := e.LoadModel("no-such-aircraft")
			Expect(err).To(MatchError(sim.ErrModelLoad))
			Expect(e.Phase()).To(Equal(sim.Created))

			Expect(e.LoadModel("blank")).To(MatchError(sim.ErrModelLoad))
			Expect(e.Aircraft()).To(BeNil())
		})

		It("requires an aircraft before initial conditions", func() {
			Expect(e.LoadInitialConditions("reset00", true)).To(MatchError(sim.ErrICLoad))
		})

		It("rejects documents that are not initial conditions", func() {
			Expect(e.LoadModel("c172x")).To(Succeed())
			err := e.LoadInitialConditions("c172x", true)
			Expect(err).To(MatchError(sim.ErrICLoad))
			Expect(errors.Is(err, xmldoc.ErrWrongRoot)).To(BeTrue())
			Expect(e.Phase()).To(Equal(sim.ModelLoaded))

			Expect(e.RunIC()).To(MatchError(sim.ErrNotInitialized))
			Expect(e.Advance(ctx, 1)).To(MatchError(sim.ErrNotInitialized))
		})

		It("does not step before RunIC", func() {
			load("reset00")
			Expect(e.Advance(ctx, 1)).To(MatchError(sim.ErrNotInitialized))
			Expect(e.Time()).To(Equal(0.0))
		})

		It("reports unknown properties", func() {
			_, err := e.GetProperty("velocities/warp-factor")
			Expect(err).To(MatchError(props.ErrUnknownProperty))
		})
	})

	Describe("version 1 initial conditions", func() {
		type check struct {
			icPath, livePath string
			want             float64
		}
		checks := []check{
			{"ic/lat-gc-deg", "position/lat-gc-deg", 47.0},
			{"ic/long-gc-deg", "position/long-gc-deg", -122.3},
			{"ic/h-agl-ft", "position/h-agl-ft", 1219.2 * units.FtPerMeter},
			{"ic/terrain-elevation-ft", "position/terrain-elevation-asl-ft", 200},
			{"ic/vt-fps", "velocities/vt-fps", 100 * units.FpsPerKnot},
			{"ic/phi-deg", "attitude/phi-deg", 0},
			{"ic/theta-deg", "attitude/theta-deg", 2.0},
		}

		BeforeEach(func() {
			load("reset00")
			Expect(e.RunIC()).To(Succeed())
		})

		It("writes specified fields to ic/ and live paths before stepping", func() {
			Expect(prop("simulation/sim-time-sec")).To(Equal(0.0))
			Expect(e.Phase()).To(Equal(sim.Initialized))
			for _, c := range checks {
				Expect(prop(c.icPath)).To(BeNumerically("~", c.want, 1e-7), c.icPath)
				Expect(prop(c.livePath)).To(BeNumerically("~", c.want, 1e-7), c.livePath)
			}
			specified := e.Props().Subtree("ic")
			Expect(specified).To(HaveKeyWithValue("ic/theta-deg", BeNumerically("~", 2.0, 1e-7)))
			Expect(specified).NotTo(HaveKey("attitude/theta-deg"))
		})

		It("treats a heading of 360 as 0", func() {
			Expect(units.AnglesEqualDeg(prop("ic/psi-true-deg"), 0, 1e-7)).To(BeTrue())
			Expect(units.AnglesEqualDeg(prop("attitude/psi-deg"), 0, 1e-7)).To(BeTrue())
			Expect(prop("ic/psi-true-deg")).To(Equal(360.0))
			Expect(prop("attitude/psi-deg")).To(BeNumerically(">=", 0))
			Expect(prop("attitude/psi-deg")).To(BeNumerically("<", 360))
		})

		It("derives unspecified fields from the state", func() {
			Expect(prop("ic/u-fps")).To(BeNumerically("~", 100*units.FpsPerKnot, 1e-9))
			Expect(prop("position/h-sl-ft")).To(BeNumerically("~", 1219.2*units.FtPerMeter+200, 1e-6))
			Expect(e.Has("ic/lat-geod-deg")).To(BeFalse())
		})

		It("keeps advancing from the initial state", func() {
			Expect(e.Advance(ctx, 0.5)).To(Succeed())
			Expect(e.Time()).To(BeNumerically(">=", 0.5))
			Expect(e.Phase()).To(Equal(sim.Stepping))
			Expect(prop("position/distance-from-start-mag-mt")).To(BeNumerically(">", 0))
			Expect(prop("position/lat-gc-deg")).To(BeNumerically(">", 47.0))
		})
	})

	Describe("version 2 geodetic position", func() {
		BeforeEach(func() {
			load("reset02")
			Expect(e.RunIC()).To(Succeed())
		})

		It("populates the geodetic property pair", func() {
			Expect(prop("ic/lat-geod-deg")).To(BeNumerically("~", 37.6, 1e-7))
			Expect(prop("position/lat-geod-deg")).To(BeNumerically("~", 37.6, 1e-7))
			Expect(prop("ic/geod-alt-ft")).To(BeNumerically("~", 1500, 1e-7))
			Expect(prop("position/geod-alt-ft")).To(BeNumerically("~", 1500, 1e-7))
			Expect(prop("ic/long-gc-deg")).To(BeNumerically("~", -122.4, 1e-7))
			Expect(prop("ic/psi-true-deg")).To(BeNumerically("~", 270, 1e-7))
			Expect(prop("ic/u-fps")).To(BeNumerically("~", 150, 1e-7))
		})

		It("places the state at the geodetic position", func() {
			Expect(prop("position/lat-gc-deg")).To(BeNumerically("<", 37.6))
			Expect(e.Step()).To(Succeed())
			Expect(prop("position/lat-geod-deg")).To(BeNumerically("~", 37.6, 1e-4))
			Expect(prop("position/geod-alt-ft")).To(BeNumerically("~", 1500, 1))
		})
	})

	Describe("trim", func() {
		It("trims when the initial conditions ask for it", func() {
			load("reset01")
			Expect(e.RunIC()).To(Succeed())

			Expect(e.Phase()).To(Equal(sim.Trimmed))
			Expect(prop("simulation/sim-time-sec")).To(Equal(0.0))
			Expect(prop("simulation/trim-completed")).To(Equal(1.0))
			Expect(math.Abs(prop("accelerations/udot-ft_sec2"))).To(BeNumerically("<", 1e-2))
			Expect(math.Abs(prop("accelerations/wdot-ft_sec2"))).To(BeNumerically("<", 1e-2))
			Expect(math.Abs(prop("accelerations/qdot-rad_sec2"))).To(BeNumerically("<", 1e-3))
			Expect(prop("fcs/throttle-cmd-norm")).To(BeNumerically("~", 0.391, 0.01))
			Expect(prop("aero/alpha-deg")).To(BeNumerically("~", 2.27, 0.05))
			Expect(prop("velocities/vt-fps")).To(BeNumerically("~", 168.781, 1e-7))
			Expect(prop("ic/vt-fps")).To(BeNumerically("~", 168.781, 1e-7))
			Expect(e.TrimReport().Converged).To(BeTrue())

			Expect(e.Advance(ctx, 1)).To(Succeed())
			Expect(prop("velocities/vt-fps")).To(BeNumerically("~", 168.781, 1))
			Expect(prop("position/h-agl-ft")).To(BeNumerically("~", 4000, 5))
		})

		It("holds the envelope in trimmed flight", func() {
			load("reset01")
			drift := metrics.NewEnergyDrift()
			effort := metrics.NewControlEffort()
			envelope := metrics.NewEnvelope(metrics.DefaultAlphaLimit, metrics.DefaultBankLimit)
			for _, m := range []metrics.Metric{drift, effort, envelope} {
				e.AddMetric(m)
			}
			Expect(e.RunIC()).To(Succeed())
			Expect(e.Advance(ctx, 1)).To(Succeed())

			Expect(e.Metrics()).To(HaveLen(3))
			Expect(envelope.Value()).To(Equal(1.0))
			Expect(effort.Value()).To(Equal(0.0))
			Expect(drift.Value()).To(BeNumerically("<", 15))
		})

		It("reports a failed trim distinctly and keeps time at zero", func() {
			load("reset03")
			err := e.RunIC()
			Expect(err).To(MatchError(trim.ErrTrimFailed))
			Expect(err.Error()).To(Equal("Trim Failed"))
			Expect(prop("simulation/sim-time-sec")).To(Equal(0.0))
			Expect(prop("simulation/trim-completed")).To(Equal(0.0))
			Expect(prop("velocities/vt-fps")).To(BeNumerically("~", 0.5, 1e-7))
			Expect(e.Phase()).To(Equal(sim.Initialized))

			Expect(e.Advance(ctx, 0.1)).To(Succeed())
		})

		It("trims on command without advancing time", func() {
			load("reset01")
			Expect(e.RunIC()).To(Succeed())
			Expect(e.Advance(ctx, 0.5)).To(Succeed())
			t := e.Time()

			Expect(e.SetProperty("simulation/do_simple_trim", float64(trim.Longitudinal))).To(Succeed())
			Expect(e.Time()).To(Equal(t))
			Expect(prop("simulation/trim-completed")).To(Equal(1.0))

			err := e.SetProperty("simulation/do_simple_trim", 99)
			Expect(err).To(MatchError(trim.ErrIllegalMode))
			Expect(errors.Is(err, trim.ErrTrimFailed)).To(BeFalse())
		})

		It("rolls the properties back when a commanded trim fails", func() {
			load("reset03")
			Expect(e.RunIC()).To(MatchError(trim.ErrTrimFailed))
			before := e.Props().Snapshot()

			err := e.SetProperty("simulation/do_simple_trim", float64(trim.Full))
			Expect(err).To(MatchError(trim.ErrTrimFailed))
			after := e.Props().Snapshot()
			delete(before, "simulation/do_simple_trim")
			delete(after, "simulation/do_simple_trim")
			Expect(after).To(Equal(before))
			Expect(e.Phase()).To(Equal(sim.Initialized))
		})

		It("skips the initial trim on request without changing the record", func() {
			load("reset01")
			e.SkipInitialTrim(true)
			Expect(e.RunIC()).To(Succeed())
			Expect(e.Phase()).To(Equal(sim.Initialized))
			Expect(prop("simulation/trim-completed")).To(Equal(0.0))
			Expect(e.Record().TrimMode).To(Equal(trim.Longitudinal))
			Expect(e.Record().WantsTrim()).To(BeTrue())

			e.SkipInitialTrim(false)
			Expect(e.RunIC()).To(Succeed())
			Expect(e.Phase()).To(Equal(sim.Trimmed))
		})
	})

	Describe("stepping", func() {
		BeforeEach(func() {
			load("reset00")
			Expect(e.RunIC()).To(Succeed())
		})

		It("rejects a non-finite step without committing it", func() {
			Expect(e.Advance(ctx, 0.1)).To(Succeed())
			frame, t := e.Frame(), e.Time()
			u := prop("velocities/u-fps")

			e.SetIntegrator(nanIntegrator{})
			err := e.Advance(ctx, 1)
			Expect(err).To(MatchError(dynamo.ErrIntegrationFault))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(frame))
			Expect(e.Frame()).To(Equal(frame))
			Expect(e.Time()).To(Equal(t))
			Expect(prop("velocities/u-fps")).To(Equal(u))
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			Expect(e.Advance(cctx, 1)).To(MatchError(context.Canceled))
			Expect(e.Time()).To(Equal(0.0))
		})

		It("keeps time continuous when the step size changes", func() {
			Expect(e.Advance(ctx, 0.5)).To(Succeed())
			t := e.Time()

			Expect(e.SetProperty("simulation/dt", 0.1)).To(Succeed())
			Expect(e.Time()).To(Equal(t))
			Expect(e.Step()).To(Succeed())
			Expect(e.Time()).To(BeNumerically("~", t+0.1, 1e-9))
			Expect(e.Step()).To(Succeed())
			Expect(e.Time()).To(BeNumerically("~", t+0.2, 1e-9))
			Expect(prop("simulation/dt")).To(Equal(0.1))
		})

		It("rejects a bad step size", func() {
			Expect(e.SetProperty("simulation/dt", 0)).NotTo(Succeed())
			Expect(e.SetProperty("simulation/dt", math.NaN())).NotTo(Succeed())
			Expect(e.Dt()).To(Equal(config.DefaultDt))
		})
	})

	Describe("scripts and logs", func() {
		var logPath string

		BeforeEach(func() {
			logPath = filepath.Join(outDir, "c172_cruise.csv")
			Expect(e.LoadScript(scriptPath)).To(Succeed())
			Expect(e.RunIC()).To(Succeed())
		})

		It("writes the initial state as the first row", func() {
			Expect(e.Advance(ctx, 1)).To(Succeed())

			log, err := output.ReadLog(logPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(log.Times[0]).To(Equal(0.0))
			Expect(log.Times[1]).To(BeNumerically("~", 0.1, 1e-6))
			Expect(len(log.Rows)).To(BeNumerically(">=", 10))

			first := func(header string) float64 {
				GinkgoHelper()
				v, ok := log.First(header)
				Expect(ok).To(BeTrue(), header)
				return v
			}
			Expect(first("V_{Total} (ft/s)")).To(BeNumerically("~", 168.781, 1e-7))
			Expect(first("Altitude AGL (ft)")).To(BeNumerically("~", 4000, 1e-7))
			Expect(first("Latitude (deg)")).To(BeNumerically("~", 0, 1e-7))
			Expect(first("Longitude (deg)")).To(BeNumerically("~", 0, 1e-7))
			Expect(first("/fdm/jsbsim/velocities/vc-kts")).To(BeNumerically("~", prop("ic/vc-kts"), 1e-7))
			Expect(log.Index("UBody")).To(BeNumerically(">=", 0))
		})

		It("re-spaces log rows when the step size changes", func() {
			Expect(e.Advance(ctx, 0.5)).To(Succeed())
			Expect(e.SetProperty("simulation/dt", 0.05)).To(Succeed())
			Expect(e.Outputs()[0].Frames()).To(Equal(2))
			Expect(e.Advance(ctx, 1.0)).To(Succeed())

			log, err := output.ReadLog(logPath)
			Expect(err).NotTo(HaveOccurred())
			n := len(log.Times)
			Expect(n).To(BeNumerically(">", 7))
			for i := 1; i < n; i++ {
				Expect(log.Times[i]).To(BeNumerically(">", log.Times[i-1]))
			}
			Expect(log.Times[n-1] - log.Times[n-2]).To(BeNumerically("~", 0.1, 1e-6))
		})

		It("fires script events and runs to the end time", func() {
			throttle := prop("fcs/throttle-cmd-norm")
			Expect(e.RunScript(ctx)).To(Succeed())
			Expect(e.Time()).To(BeNumerically(">=", 2.0))
			Expect(prop("simulation/notify-count")).To(Equal(1.0))
			Expect(e.Script().Events[0].Fired()).To(BeTrue())
			Expect(prop("fcs/throttle-cmd-norm")).To(BeNumerically("~", throttle+0.05, 1e-12))
		})

		It("returns to the initial conditions on reset", func() {
			Expect(e.Advance(ctx, 0.5)).To(Succeed())
			Expect(e.SetProperty("simulation/reset", 1)).To(Succeed())
			Expect(e.Time()).To(Equal(0.0))
			Expect(e.Frame()).To(Equal(0))

			log, err := output.ReadLog(logPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(log.Rows).To(HaveLen(1))
		})

		It("rejects documents that are not scripts", func() {
			Expect(e.LoadScript(filepath.Join(repoRoot, "aircraft", "c172x", "reset00.xml"))).To(MatchError(sim.ErrScriptLoad))
		})
	})

	It("skips unknown output properties", func() {
		load("reset00")
		e.AddOutput(output.Directive{
			Name:       "extra.csv",
			Format:     output.CSV,
			Rate:       1,
			Properties: []output.Property{{Path: "velocities/vt-fps"}, {Path: "nope/missing"}},
		})
		Expect(e.RunIC()).To(Succeed())
		Expect(e.Outputs()).To(HaveLen(1))
		Expect(e.Outputs()[0].Columns).To(Equal([]output.Column{{Path: "velocities/vt-fps", Header: "V_{Total} (ft/s)"}}))
		Expect(e.Outputs()[0].Rows()).To(Equal(1))
	})
})
