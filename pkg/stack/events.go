package stack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klothoplatform/tablestream/pkg/logging"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/events"
	"github.com/pulumi/pulumi/sdk/v3/go/common/apitype"
	"go.uber.org/zap"
)

// Events returns a channel the engine streams its events into and logs
// them as they arrive. The raw event goes to debug; progress counts and
// the final summary go to info so a default-level run still shows
// movement.
func Events(ctx context.Context, action string) chan<- events.EngineEvent {
	ech := make(chan events.EngineEvent)
	go func() {
		log := logging.GetLogger(ctx).Named("pulumi.events").Sugar()
		status := fmt.Sprintf("%s stack", action)

		// resourceStatus tracks each resource's status. The key is the resource's URN and the value is the status.
		// The value is an enum that represents the resource's status:
		// 0. Pending / resource pre event, this just marks which resources we're aware of
		// 1. Refresh complete
		// 2. In progress
		// 3. Done
		resourceStatus := make(map[string]int)

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ech:
				if !ok {
					return
				}
				buf.Reset()
				if err := enc.Encode(e); err != nil {
					log.Error("Failed to encode pulumi event", zap.Error(err))
					continue
				}
				logLine := strings.TrimSpace(buf.String())
				log.Debugf("Pulumi event: %s", logLine)

				switch {
				case e.ResourcePreEvent != nil:
					e := e.ResourcePreEvent
					if e.Metadata.Op == apitype.OpRefresh {
						resourceStatus[e.Metadata.URN] = 0
					} else {
						resourceStatus[e.Metadata.URN] = 2
					}

				case e.ResOutputsEvent != nil:
					e := e.ResOutputsEvent
					if e.Metadata.Op == apitype.OpRefresh {
						resourceStatus[e.Metadata.URN] = 1
					} else {
						resourceStatus[e.Metadata.URN] = 3
					}

				case e.DiagnosticEvent != nil && e.DiagnosticEvent.Severity == "error":
					log.Errorf("%s: %s", status, strings.TrimSpace(e.DiagnosticEvent.Message))

				case e.SummaryEvent != nil:
					log.Infof("%s complete: %v", status, e.SummaryEvent.ResourceChanges)
				}

				current, total := 0, 0
				for _, stateCode := range resourceStatus {
					total += 3
					current += stateCode
				}
				if total > 0 {
					log.Infof("%s: %d/%d", status, current, total)
				}
			}
		}
	}()
	return ech
}
