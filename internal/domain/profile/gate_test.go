package profile

import (
	"errors"
	"strings"
	"testing"
)

func validProfessionalInput() CompletionInput {
	return CompletionInput{
		Profession: "plumbing",
		Bio:        strings.Repeat("Experienced plumber. ", 4),
		HourlyRate: 25,
		Location:   "Bakı",
		AvatarURL:  "https://cdn.example.com/avatars/rashad.jpg",
	}
}

func TestValidateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		role      Role
		mutate    func(*CompletionInput)
		targetErr error
	}{
		{
			name:   "professional with everything filled passes",
			role:   RoleProfessional,
			mutate: func(*CompletionInput) {},
		},
		{
			name: "customer passes with empty input",
			role: RoleCustomer,
			mutate: func(in *CompletionInput) {
				*in = CompletionInput{Bio: "hi", Location: "Gəncə"}
			},
		},
		{
			name: "professional without avatar",
			role: RoleProfessional,
			mutate: func(in *CompletionInput) {
				in.AvatarURL = ""
			},
			targetErr: ErrPhotoRequired,
		},
		{
			name: "professional with generated placeholder avatar",
			role: RoleProfessional,
			mutate: func(in *CompletionInput) {
				in.AvatarURL = "https://ui-avatars.com/api/?name=Rashad"
			},
			targetErr: ErrPhotoRequired,
		},
		{
			name: "professional without profession",
			role: RoleProfessional,
			mutate: func(in *CompletionInput) {
				in.Profession = "   "
			},
			targetErr: ErrProfessionRequired,
		},
		{
			name: "professional with short bio",
			role: RoleProfessional,
			mutate: func(in *CompletionInput) {
				in.Bio = "I fix pipes"
			},
			targetErr: ErrBioTooShort,
		},
		{
			name: "bio length counts runes not bytes",
			role: RoleProfessional,
			mutate: func(in *CompletionInput) {
				in.Bio = strings.Repeat("ə", MinProfessionalBioLength)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := validProfessionalInput()
			tc.mutate(&in)

			err := ValidateCompletion(tc.role, in)
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("ValidateCompletion() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("ValidateCompletion() error = %v, want %v", err, tc.targetErr)
			}
		})
	}
}

func TestIsPlaceholderAvatar(t *testing.T) {
	t.Parallel()

	if !IsPlaceholderAvatar("") {
		t.Fatal("empty URL should count as placeholder")
	}
	if !IsPlaceholderAvatar(PlaceholderAvatarURL("Aysel Məmmədova")) {
		t.Fatal("generated URL should count as placeholder")
	}
	if IsPlaceholderAvatar("https://cdn.example.com/a.jpg") {
		t.Fatal("uploaded photo should not count as placeholder")
	}
}
