// Copyright (c) 2026 Mogger. All rights reserved.

package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amandag/mogger/internal/perm"
)

/*
TestSet_Has tests literal membership and the wildcard.
*/
func TestSet_Has(t *testing.T) {
	tests := []struct {
		name       string
		set        perm.Set
		permission perm.Permission
		want       bool
	}{
		{"literal_match", perm.Set{perm.EditComment}, perm.EditComment, true},
		{"missing_token", perm.Set{perm.EditComment}, perm.DeleteComment, false},
		{"wildcard_grants_everything", perm.Set{perm.All}, perm.EditForeignUser, true},
		{"wildcard_among_others", perm.Set{perm.EditComment, perm.All}, perm.CreateArticle, true},
		{"empty_set", perm.Set{}, perm.EditComment, false},
		{"nil_set", nil, perm.EditComment, false},
		{"unknown_token_is_inert", perm.Set{"launch-rockets"}, perm.EditComment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Has(tt.permission))
		})
	}
}
