package cmd

import (
	"fmt"

	"s3sync/internal/storage"

	"github.com/spf13/cobra"
)

var bucketRegion string

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage remote buckets",
}

func newStorageClient(cmd *cobra.Command) (*storage.S3Client, error) {
	return storage.NewS3Client(cmd.Context(), storage.Credentials{
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
	})
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buckets",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newStorageClient(cmd)
		if err != nil {
			return err
		}

		buckets, err := client.ListBuckets(cmd.Context())
		if err != nil {
			return err
		}

		if len(buckets) == 0 {
			fmt.Println("no buckets")
			return nil
		}

		for _, b := range buckets {
			fmt.Printf("%-40s %s\n", b.Name, b.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newStorageClient(cmd)
		if err != nil {
			return err
		}

		region := bucketRegion
		if region == "" {
			region = cfg.Region
		}

		if err := client.CreateBucket(cmd.Context(), args[0], region); err != nil {
			return err
		}

		fmt.Printf("bucket %s created\n", args[0])
		return nil
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newStorageClient(cmd)
		if err != nil {
			return err
		}

		if err := client.DeleteBucket(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("bucket %s deleted\n", args[0])
		return nil
	},
}

func init() {
	bucketCreateCmd.Flags().StringVar(&bucketRegion, "region", "", "bucket region (defaults to configured region)")
	bucketCmd.AddCommand(bucketListCmd, bucketCreateCmd, bucketDeleteCmd)
	rootCmd.AddCommand(bucketCmd)
}
