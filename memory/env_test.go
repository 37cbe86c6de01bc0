package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		files map[string]string
		want  Environment
	}{
		{
			name: "bare metal defaults to production",
			want: EnvironmentProduction,
		},
		{
			name: "explicit development",
			env:  map[string]string{"APP_ENV": "development"},
			want: EnvironmentDevelopment,
		},
		{
			name: "vecmem env wins",
			env:  map[string]string{"VECMEM_ENV": "development", "KUBERNETES_SERVICE_HOST": "x"},
			want: EnvironmentDevelopment,
		},
		{
			name: "lambda",
			env:  map[string]string{"AWS_LAMBDA_FUNCTION_NAME": "fn"},
			want: EnvironmentServerless,
		},
		{
			name: "cloud run",
			env:  map[string]string{"K_SERVICE": "svc"},
			want: EnvironmentServerless,
		},
		{
			name: "kubernetes",
			env:  map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"},
			want: EnvironmentContainer,
		},
		{
			name:  "dockerenv marker file",
			files: map[string]string{"/.dockerenv": ""},
			want:  EnvironmentContainer,
		},
		{
			name: "serverless beats container",
			env:  map[string]string{"K_SERVICE": "svc", "KUBERNETES_SERVICE_HOST": "x"},
			want: EnvironmentServerless,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &fixtureProbe{env: tt.env, files: tt.files}
			assert.Equal(t, tt.want, DetectEnvironment(probe))
		})
	}
}

func TestEnvironment_String(t *testing.T) {
	assert.Equal(t, "production", EnvironmentProduction.String())
	assert.Equal(t, "development", EnvironmentDevelopment.String())
	assert.Equal(t, "container", EnvironmentContainer.String())
	assert.Equal(t, "serverless", EnvironmentServerless.String())
}
