package statistic

import (
	"fmt"
	"time"

	"github.com/chore-quest/backend/pkg/dateutil"
)

func redisKeyWeeklyXP(at time.Time) string {
	return fmt.Sprintf("xp:week:%s", dateutil.WeekKey(at))
}
