package cmd

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	leveldb "github.com/ipfs/go-ds-leveldb"
	"github.com/urfave/cli/v2"

	"github.com/imganalysis/imganalysis/pkg/analysis"
	"github.com/imganalysis/imganalysis/pkg/aws"
	"github.com/imganalysis/imganalysis/pkg/config"
	"github.com/imganalysis/imganalysis/pkg/presigner"
	"github.com/imganalysis/imganalysis/pkg/server"
	"github.com/imganalysis/imganalysis/pkg/service/images"
	"github.com/imganalysis/imganalysis/pkg/store/recordstore"
)

var ServeCmd = &cli.Command{
	Name:  "serve",
	Usage: "Serve the upload URL, analysis and history handlers over HTTP.",
	Flags: []cli.Flag{
		ConfigFlag,
		PortFlag,
		BucketFlag,
		TableFlag,
		DataDirFlag,
		PublicURLFlag,
		RekognitionRegionFlag,
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		cfg, err := config.LoadServeConfig(cctx)
		if err != nil {
			return err
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("loading aws default config: %w", err)
		}

		var records recordstore.RecordStore
		recordsLocation := fmt.Sprintf("dynamodb table %s", cfg.TableName)
		if cfg.TableName != "" {
			records = aws.NewDynamoRecordStore(awsCfg, cfg.TableName)
		} else {
			dir, err := mkdirp(cfg.DataDir, "records")
			if err != nil {
				return err
			}
			ds, err := leveldb.NewDatastore(dir, nil)
			if err != nil {
				return fmt.Errorf("opening records datastore: %w", err)
			}
			defer ds.Close()
			log.Warnf("No table configured, storing records in: %s", dir)
			records = recordstore.NewDsRecordStore(ds)
			recordsLocation = dir
		}

		var rekognitionOpts []func(*rekognition.Options)
		if cfg.RekognitionRegion != "" {
			rekognitionOpts = append(rekognitionOpts, func(o *rekognition.Options) {
				o.Region = cfg.RekognitionRegion
			})
		}

		publicURL := cfg.PublicURL
		if publicURL == "" {
			publicURL = analysis.DefaultPublicURL(cfg.BucketName)
		}

		srv := images.NewServer(
			presigner.NewS3UploadPresigner(s3.NewFromConfig(awsCfg), cfg.BucketName),
			aws.NewRekognitionDetector(awsCfg, cfg.BucketName, rekognitionOpts...),
			records,
			publicURL,
		)

		addr := fmt.Sprintf(":%d", cfg.Port)
		PrintHero(addr, cfg.BucketName, recordsLocation)
		return server.ListenAndServe(ctx, addr, server.WithImages(srv))
	},
}
