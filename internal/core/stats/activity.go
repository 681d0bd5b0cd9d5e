package stats

import (
	"sort"
	"time"

	"messenger-chat-stats/internal/domain"
)

// DailyActivity возвращает количество сообщений за каждый календарный день
// от первого до последнего сообщения включительно; дни без сообщений имеют нулевой счетчик.
// Разбивка по отправителям следует общему рейтингу участников.
func DailyActivity(messages []domain.Message, loc *time.Location) ([]domain.DailyActivity, error) {
	if err := requireMessages("daily activity", messages); err != nil {
		return nil, err
	}

	ranking, err := ParticipantCounts(messages)
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]map[string]int)
	first := civilDay(messages[0].Timestamp, loc)
	last := first
	for _, msg := range messages {
		day := civilDay(msg.Timestamp, loc)
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
		key := day.Format(DateLayout)
		if perDay[key] == nil {
			perDay[key] = make(map[string]int)
		}
		perDay[key][msg.Sender]++
	}

	var result []domain.DailyActivity
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(DateLayout)
		bucket := domain.DailyActivity{Date: key}
		for _, p := range ranking {
			if n := perDay[key][p.Name]; n > 0 {
				bucket.Count += n
				bucket.BySender = append(bucket.BySender, domain.ParticipantCount{Name: p.Name, Count: n})
			}
		}
		result = append(result, bucket)
	}
	return result, nil
}

// HourlyActivity возвращает 24 корзины по часу суток, суммированные по всем дням.
// Разбивка по отправителям следует общему рейтингу участников.
func HourlyActivity(messages []domain.Message, loc *time.Location) ([]domain.HourlyActivity, error) {
	if err := requireMessages("hourly activity", messages); err != nil {
		return nil, err
	}

	ranking, err := ParticipantCounts(messages)
	if err != nil {
		return nil, err
	}

	var perHour [24]map[string]int
	for _, msg := range messages {
		h := msg.Timestamp.In(loc).Hour()
		if perHour[h] == nil {
			perHour[h] = make(map[string]int)
		}
		perHour[h][msg.Sender]++
	}

	result := make([]domain.HourlyActivity, 24)
	for h := range perHour {
		bucket := domain.HourlyActivity{Hour: h}
		for _, p := range ranking {
			if n := perHour[h][p.Name]; n > 0 {
				bucket.Count += n
				bucket.BySender = append(bucket.BySender, domain.ParticipantCount{Name: p.Name, Count: n})
			}
		}
		result[h] = bucket
	}
	return result, nil
}

// LongestStreak находит самую длинную серию календарных дней подряд с сообщениями.
// При равной длине выбирается более ранняя серия.
func LongestStreak(messages []domain.Message, loc *time.Location) (domain.Streak, error) {
	if err := requireMessages("longest streak", messages); err != nil {
		return domain.Streak{}, err
	}

	seen := make(map[int64]bool)
	var days []int64
	for _, msg := range messages {
		day := dayNumber(msg.Timestamp, loc)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	var (
		bestStart, bestLen int
		curStart, curLen   int
	)
	for i := range days {
		if i > 0 && days[i] == days[i-1]+1 {
			curLen++
		} else {
			curStart, curLen = i, 1
		}
		if curLen > bestLen {
			bestStart, bestLen = curStart, curLen
		}
	}

	return domain.Streak{
		Days:  bestLen,
		Start: dayDate(days[bestStart]),
		End:   dayDate(days[bestStart+bestLen-1]),
	}, nil
}

func dayDate(day int64) string {
	return time.Unix(day*secondsPerDay, 0).UTC().Format(DateLayout)
}
