package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/collection"
)

// ExportCSVInput requests a backend-produced CSV blob for one resource.
type ExportCSVInput struct {
	Resource string            `json:"resource"`
	Params   collection.Params `json:"params,omitempty"`
	Actor    backoffice.ActorContext

	// Blob receives the exported bytes.
	Blob *[]byte `json:"-"`
}

type exportService interface {
	ServerExport(ctx context.Context, resource string, params collection.Params) ([]byte, error)
}

// ExportCSVCommand wraps Service.ServerExport.
type ExportCSVCommand struct {
	service   exportService
	telemetry Telemetry
}

// NewExportCSVCommand creates a command instance.
func NewExportCSVCommand(service exportService, telemetry Telemetry) *ExportCSVCommand {
	return &ExportCSVCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ExportCSVInput] = (*ExportCSVCommand)(nil)

// Execute delegates to the back-office service.
func (c *ExportCSVCommand) Execute(ctx context.Context, msg ExportCSVInput) error {
	if c.service == nil {
		return errors.New("export csv command requires service")
	}
	if msg.Resource == "" {
		return errors.New("export csv command requires resource")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	blob, err := c.service.ServerExport(ctx, msg.Resource, msg.Params)
	if err != nil {
		return err
	}
	if msg.Blob != nil {
		*msg.Blob = blob
	}
	c.telemetry.Record(ctx, "commands.export.csv", map[string]any{"resource": msg.Resource, "bytes": len(blob)})
	return nil
}
