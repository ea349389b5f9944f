package domain_test

import (
	"testing"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "081234567890", want: "081234567890"},
		{in: "+62 812-3456-7890", want: "+6281234567890"},
		{in: "(021) 555.1234", want: "0215551234"},
		{in: "1234567", wantErr: true},
		{in: "+1234567890123456", wantErr: true},
		{in: "0812+3456789", wantErr: true},
		{in: "0812abc4567", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.NormalizePhone(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRoleName(t *testing.T) {
	p := domain.Principal{}
	require.Equal(t, "user", p.RoleName())
	require.False(t, p.IsOfficer())

	p.Role = domain.OfficerRole("")
	require.Equal(t, "petugas", p.RoleName())
	require.Equal(t, domain.DefaultOfficerTitle, p.Role.Title)

	// superuser wins even with an officer attachment
	p.Superuser = true
	require.Equal(t, "admin", p.RoleName())
	require.True(t, p.IsOfficer())
	require.True(t, p.IsAdmin())
}

func TestProfileHidesSecrets(t *testing.T) {
	p := domain.Principal{
		ID:           "id-1",
		Email:        "a@x.com",
		PasswordHash: "deadbeef",
		PasswordSalt: "salt",
		Role:         domain.OfficerRole("Kepala"),
	}

	prof := p.Profile(nil)
	require.Equal(t, "petugas", prof.Role)
	require.Equal(t, "Kepala", prof.Title)
	require.Nil(t, prof.Phone)
}
