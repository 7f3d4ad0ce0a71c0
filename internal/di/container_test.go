package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	analyticsService "github.com/reshetovitsme/community-analytics/internal/modules/analytics/service"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	reportDomain "github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `{
  "operator_id": "100:3@c.us",
  "chats": [
    {"id": "root@g.us", "name": "Neighbours", "is_group": true, "is_community": true,
     "participants": [{"id": "100@c.us", "is_admin": true}]},
    {"id": "a@g.us", "name": "Garden", "is_group": true, "parent_id": "root@g.us",
     "participants": [{"id": "1@c.us", "name": "Ann"}, {"id": "2@c.us", "name": "Bob"}]},
    {"id": "b@g.us", "name": "Announcements", "is_group": true, "parent_id": "root@g.us", "announce_only": true,
     "participants": [{"id": "1@c.us", "name": "Ann"}, {"id": "2:7@c.us", "name": "Bob"}, {"id": "3@c.us", "name": "Cid"}]}
  ],
  "messages": {
    "a@g.us": [{"id": "m1", "author": "1@c.us", "timestamp": 4102444800, "kind": "chat", "body": "hello"}]
  }
}`

func TestSetup_WiresReports(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "community.json"), []byte(snapshot), 0644))
	t.Setenv("CA_COMMUNITY_ID", "root@g.us")
	t.Setenv("CA_SNAPSHOT_PATH", filepath.Join(dir, "community.json"))
	t.Setenv("CA_REPORTS_PATH", filepath.Join(dir, "reports"))
	t.Setenv("CA_ACTIVITY_WINDOW_DAYS", "0")

	injector, err := Setup()
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(context.Background(), injector) })

	ctx := context.Background()
	community := do.MustInvoke[*communityService.Service](injector)
	loaded, err := community.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100@c.us", loaded.OperatorID)
	assert.Equal(t, []string{"Announcements", "Garden"}, loaded.GroupNames())

	analytics := do.MustInvoke[*analyticsService.Service](injector)

	exclusive, err := analytics.Exclusive(ctx)
	require.NoError(t, err)
	assert.Equal(t, reportDomain.ReportKindUsersOnlyInOneGroup, exclusive.File.Kind)
	require.Len(t, exclusive.Users, 2)
	assert.Equal(t, "1@c.us", exclusive.Users[0].UserID)

	inactive, err := analytics.Inactive(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(inactive.Result.Inactive))
	for _, u := range inactive.Result.Inactive {
		ids = append(ids, u.Participant.ID)
	}
	assert.Equal(t, []string{"2@c.us", "3@c.us"}, ids)

	_, err = os.Stat(filepath.Join(dir, "reports", inactive.Files[0].Name))
	assert.NoError(t, err)
}
