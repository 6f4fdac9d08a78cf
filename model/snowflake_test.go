package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShivamB25/undiscord-cli/model"
)

func TestToSnowflake(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{name: "platform epoch", in: "2015-01-01 00:00:00", want: 0},
		{name: "one second past epoch", in: "2015-01-01 00:00:01", want: 4194304000},
		{name: "one day past epoch", in: "2015-01-02 00:00:00", want: 86400000 << 22},
		{name: "before epoch", in: "2014-12-31 23:59:59", wantErr: true},
		{name: "wrong layout", in: "2015/01/01", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ToSnowflake(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
