package service

import (
	"testing"

	"github.com/okian/scout/internal/domain/rolegate"
	"github.com/okian/scout/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGateDecision(t *testing.T) {
	Convey("Given role gate outcomes", t, func() {
		Convey("Then each maps to its metric label", func() {
			So(gateDecision(rolegate.Outcome{}), ShouldBeEmpty)
			So(gateDecision(rolegate.Outcome{Applied: true, Reason: rolegate.ReasonTargetCluster}), ShouldEqual, metrics.GateApplied)
			So(gateDecision(rolegate.Outcome{Applied: true, CacheHit: true, Reason: rolegate.ReasonNearestClusters}), ShouldEqual, metrics.GateCacheHit)
			So(gateDecision(rolegate.Outcome{Reason: rolegate.ReasonDegenerate}), ShouldEqual, metrics.GateFallback)
			So(gateDecision(rolegate.Outcome{Reason: rolegate.ReasonSmallPool}), ShouldEqual, metrics.GateSkipped)
			So(gateDecision(rolegate.Outcome{Reason: rolegate.ReasonFewFeatures}), ShouldEqual, metrics.GateSkipped)
		})

		Convey("Then every label is accepted by the recorder", func() {
			for _, o := range []rolegate.Outcome{
				{Applied: true, Reason: rolegate.ReasonTargetCluster},
				{Reason: rolegate.ReasonDegenerate},
				{Reason: rolegate.ReasonSmallPool},
			} {
				So(metrics.RecordRoleGateDecision(gateDecision(o)), ShouldBeNil)
			}
		})
	})
}
