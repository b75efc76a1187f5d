package infra

import (
	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/glue"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Hive-era placeholders the catalog API wants on table creation even
// though Iceberg readers ignore them.
const (
	placeholderInputFormat  = "org.apache.hadoop.mapred.TextInputFormat"
	placeholderOutputFormat = "org.apache.hadoop.hive.ql.io.HiveIgnoreKeyTextOutputFormat"
	placeholderSerdeLibrary = "org.apache.hadoop.hive.serde2.lazy.LazySimpleSerDe"
)

// declareCatalog creates the catalog database and the Iceberg table
// entry pointing at the bucket. The table's schema is the shape the
// stream delivers after any transform has run.
func (p *Pipeline) declareCatalog(ctx *pulumi.Context, spec pipeline.Spec) error {
	database, err := glue.NewCatalogDatabase(ctx, "tableDatabase", &glue.CatalogDatabaseArgs{
		Name: pulumi.String(spec.Catalog.Database),
	})
	if err != nil {
		return err
	}

	columns := make(glue.CatalogTableStorageDescriptorColumnArray, 0, len(spec.Catalog.Columns))
	for _, col := range spec.Catalog.Columns {
		columns = append(columns, &glue.CatalogTableStorageDescriptorColumnArgs{
			Name: pulumi.String(col.Name),
			Type: pulumi.String(col.Type),
		})
	}

	partitionKeys := make(glue.CatalogTablePartitionKeyArray, 0, len(spec.Catalog.PartitionKeys))
	for _, key := range spec.Catalog.PartitionKeys {
		partitionKeys = append(partitionKeys, &glue.CatalogTablePartitionKeyArgs{
			Name: pulumi.String(key.Name),
			Type: pulumi.String(key.Type),
		})
	}

	table, err := glue.NewCatalogTable(ctx, "icebergTable", &glue.CatalogTableArgs{
		DatabaseName: database.Name,
		Name:         pulumi.String(spec.Catalog.Table),
		TableType:    pulumi.String("ICEBERG"),
		StorageDescriptor: &glue.CatalogTableStorageDescriptorArgs{
			Location:     p.TableLocation,
			InputFormat:  pulumi.String(placeholderInputFormat),
			OutputFormat: pulumi.String(placeholderOutputFormat),
			SerDeInfo: &glue.CatalogTableStorageDescriptorSerDeInfoArgs{
				Name:                 pulumi.String("IcebergSerDe"),
				SerializationLibrary: pulumi.String(placeholderSerdeLibrary),
			},
			Columns: columns,
		},
		PartitionKeys: partitionKeys,
		Parameters: pulumi.StringMap{
			"table_type":                      pulumi.String("ICEBERG"),
			"format":                          pulumi.String("parquet"),
			"write.parquet.compression-codec": pulumi.String(spec.Catalog.Compression),
		},
	})
	if err != nil {
		return err
	}

	p.Database = database
	p.Table = table
	return nil
}
