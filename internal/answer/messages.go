// Package answer renders natural-language replies from resolved slots and
// candidate records. Every function here is a pure function of its inputs.
package answer

import "strings"

// Meal replies.
const (
	mealKeywordFound          = "네, '%s' 메뉴가 포함되어 있어요.\n\n%s"
	mealKeywordMissing        = "아니요, '%s' 메뉴는 없습니다.\n\n%s"
	mealPeriodEmpty           = "요청하신 기간(%s)에는 식단 정보가 없어요. 다른 기간으로 다시 질문해 보시겠어요?"
	mealKeywordAbsentInPeriod = "요청하신 기간(%s)에는 식단은 있지만, '%s' 메뉴는 포함되어 있지 않아요."
	mealNoMatchInPeriod       = "요청하신 기간(%s)에는 조건에 맞는 식단을 찾지 못했어요."
	mealNothingRecent         = "최근 관련 식단을 찾지 못했어요."
)

// Notice replies.
const (
	noticeOtherDatePrefix    = "[다른 날짜 %s] %s"
	noticePeriodWithFallback = "요청하신 기간(%s)에는 '%s' 키워드를 포함한 공지사항이 없어요.\n다른 날짜에 찾은 관련 공지사항은 다음과 같아요:\n\n%s"
	noticePeriodNoKeyword    = "요청하신 기간(%s)에는 '%s' 키워드를 포함한 공지사항이 없어요. 다른 기간으로 다시 질문해 보시겠어요?"
	noticePeriodEmpty        = "요청하신 기간(%s)에는 공지사항이 없어요. 다른 기간으로 다시 질문해 보시겠어요?"
	noticeRecentRelated      = "최근 관련 공지사항은 다음과 같아요:\n\n%s"
	noticeNothingRecent      = "최근 관련 공지사항을 찾지 못했어요."
)

// Schedule replies.
const (
	scheduleOtherPeriod           = "요청하신 기간에는 '%s' 일정이 없지만, %s에 같은 일정이 있습니다."
	schedulePeriodEmpty           = "요청하신 기간(%s)에는 학사일정이 없어요. 다른 기간으로 다시 질문해 보시겠어요?"
	scheduleKeywordAbsentInPeriod = "요청하신 기간에 학사일정은 있지만, '%s' 키워드를 포함한 내용은 보이지 않아요."
	scheduleNoMatchInPeriod       = "요청하신 기간(%s)에는 조건에 맞는 학사일정을 찾지 못했어요."
	scheduleKeywordNotFound       = "'%s' 키워드에 해당하는 학사일정을 찾을 수 없습니다."
	scheduleNothingRecent         = "최근 관련 학사일정을 찾지 못했어요."
)

const blockSeparator = "\n\n"

// orderedSet keeps the first occurrence of each entry in insertion order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

func (s *orderedSet) len() int { return len(s.items) }

func (s *orderedSet) join() string {
	return strings.Join(s.items, blockSeparator)
}
