package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleNotifications() []Notification {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// newest first, the order the repository returns
	return []Notification{
		{ID: 6, Type: NotificationFriend, Read: false, CreatedAt: base.Add(5 * time.Minute)},
		{ID: 5, Type: NotificationCommunity, Read: true, CreatedAt: base.Add(4 * time.Minute)},
		{ID: 4, Type: NotificationClub, Read: false, CreatedAt: base.Add(3 * time.Minute)},
		{ID: 3, Type: NotificationEvent, Read: false, CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Type: NotificationMessage, Read: true, CreatedAt: base.Add(time.Minute)},
		{ID: 1, Type: NotificationMessage, Read: false, CreatedAt: base},
	}
}

func TestFilterByCategory_AllIsIdentity(t *testing.T) {
	ns := sampleNotifications()
	assert.Equal(t, ns, FilterByCategory(ns, CategoryAll))
}

func TestFilterByCategory_PreservesOrder(t *testing.T) {
	ns := sampleNotifications()
	messages := FilterByCategory(ns, CategoryMessages)

	assert.Len(t, messages, 2)
	assert.Equal(t, int64(2), messages[0].ID)
	assert.Equal(t, int64(1), messages[1].ID)
}

func TestFilterByCategory_TypeBucketsPartitionTheSet(t *testing.T) {
	ns := sampleNotifications()

	buckets := []Category{CategoryMessages, CategoryEvents, CategoryClubs, CategoryCommunities, CategoryOther}
	seen := make(map[int64]int)
	total := 0
	for _, bucket := range buckets {
		for _, n := range FilterByCategory(ns, bucket) {
			seen[n.ID]++
			total++
		}
	}

	assert.Equal(t, len(ns), total)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "notification %d appeared in %d buckets", id, count)
	}
}

func TestFilterByCategory_Unread(t *testing.T) {
	ns := sampleNotifications()
	unread := FilterByCategory(ns, CategoryUnread)

	assert.Len(t, unread, 4)
	for _, n := range unread {
		assert.False(t, n.Read)
	}
}

func TestCategoryOf_UnnamedTypesFallIntoOther(t *testing.T) {
	assert.Equal(t, CategoryOther, CategoryOf(NotificationFriend))
	assert.Equal(t, CategoryOther, CategoryOf(NotificationLike))
	assert.Equal(t, CategoryOther, CategoryOf(NotificationAchievement))
	assert.Equal(t, CategoryOther, CategoryOf(NotificationSystem))
	// a type this code has never heard of still lands in a bucket
	assert.Equal(t, CategoryOther, CategoryOf(NotificationType("poll")))
}

func TestUnreadCounts_Invariants(t *testing.T) {
	ns := sampleNotifications()
	counts := UnreadCounts(ns)

	unreadTotal := 0
	for _, n := range ns {
		if !n.Read {
			unreadTotal++
		}
	}

	assert.Equal(t, unreadTotal, counts[CategoryAll])
	assert.Equal(t, counts[CategoryAll], counts[CategoryUnread])

	bucketSum := counts[CategoryMessages] + counts[CategoryEvents] +
		counts[CategoryClubs] + counts[CategoryCommunities] + counts[CategoryOther]
	assert.Equal(t, counts[CategoryAll], bucketSum)
}

func TestUnreadCounts_EmptySetHasAllKeysAtZero(t *testing.T) {
	counts := UnreadCounts(nil)

	assert.Len(t, counts, 7)
	for _, c := range Categories() {
		assert.Equal(t, 0, counts[c])
	}
}

func TestUnreadCounts_UnreadMessageBumpsThreeBuckets(t *testing.T) {
	before := UnreadCounts(sampleNotifications())

	withNew := append([]Notification{
		{ID: 7, Type: NotificationMessage, Read: false, CreatedAt: time.Now()},
	}, sampleNotifications()...)
	after := UnreadCounts(withNew)

	assert.Equal(t, before[CategoryAll]+1, after[CategoryAll])
	assert.Equal(t, before[CategoryUnread]+1, after[CategoryUnread])
	assert.Equal(t, before[CategoryMessages]+1, after[CategoryMessages])
	assert.Equal(t, before[CategoryEvents], after[CategoryEvents])
	assert.Equal(t, before[CategoryClubs], after[CategoryClubs])
	assert.Equal(t, before[CategoryCommunities], after[CategoryCommunities])
	assert.Equal(t, before[CategoryOther], after[CategoryOther])
}

func TestUnreadCounts_AllReadIsAllZero(t *testing.T) {
	ns := sampleNotifications()
	for i := range ns {
		ns[i].Read = true
	}

	for _, count := range UnreadCounts(ns) {
		assert.Equal(t, 0, count)
	}
}
