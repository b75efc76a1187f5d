package infra

import (
	"fmt"

	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// environment carries the values resolved from the provider before any
// resource is declared: the effective region, the caller's account id,
// and the zone id the zonal bucket lives in.
type environment struct {
	Region    string
	AccountID string
	ZoneID    string
}

func resolveEnvironment(ctx *pulumi.Context, spec pipeline.Spec) (environment, error) {
	region, err := aws.GetRegion(ctx, &aws.GetRegionArgs{}, nil)
	if err != nil {
		return environment{}, fmt.Errorf("failed to resolve region: %w", err)
	}

	ident, err := aws.GetCallerIdentity(ctx, &aws.GetCallerIdentityArgs{}, nil)
	if err != nil {
		return environment{}, fmt.Errorf("failed to resolve caller identity: %w", err)
	}

	zoneID := spec.AvailabilityZoneID
	if zoneID == "" {
		zones, err := aws.GetAvailabilityZones(ctx, &aws.GetAvailabilityZonesArgs{
			State: pulumi.StringRef("available"),
		}, nil)
		if err != nil {
			return environment{}, fmt.Errorf("failed to list availability zones: %w", err)
		}
		if len(zones.ZoneIds) == 0 {
			return environment{}, fmt.Errorf("no available zones in region %s", region.Name)
		}
		zoneID = zones.ZoneIds[0]
	}

	return environment{
		Region:    region.Name,
		AccountID: ident.AccountId,
		ZoneID:    zoneID,
	}, nil
}
