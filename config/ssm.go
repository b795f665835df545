package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSMParameters copies every parameter under prefix into cfg, keyed by the
// upper-cased last path segment (/portfolio/prod/cloudinary_cloud_name becomes
// CLOUDINARY_CLOUD_NAME). Keys already present in cfg are left alone so the
// process environment always wins. It returns the number of keys added.
func LoadSSMParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, cfg map[string]string) (int, error) {
	if prefix == "" {
		return 0, nil
	}

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	added := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return added, fmt.Errorf("ssm: get parameters by path %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			key := strings.ToUpper(path.Base(name))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := cfg[key]; ok && existing != "" {
				log.Debug().Str("key", key).Msg("ssm parameter shadowed by environment")
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			added++
		}
	}
	return added, nil
}
