package markers

import "strings"

// VeryStrongStemPhrases are stem phrases that almost only occur in exam
// questions. Recognizer misreads seen in the wild are listed alongside the
// correct spelling (镇入 for 填入, 怡当 for 恰当, 一顶 for 一项, 橫 for 横).
var VeryStrongStemPhrases = []string{
	"填入", "填入划横线", "填入横线", "填入画横线",
	"镇入", "镇入画横线", "镇入画橫线", "镇入横线",
	"画橫线", "画横线", "橫线",
	"最恰当的一项是", "最恰当的是", "最合适的一项是", "最合适的是",
	"最怡当的一项是", "最怡当的是", "最怡当",
	"一顶是", "一顶",
	"可以推出", "推出", "可以得出", "得出",
	"正确的一项是", "正确的是", "错误的是", "不正确的是",
	"分类", "分为", "分成",
	"依次填入", "依次镇入",
	"fill in the blank", "the most appropriate", "can be concluded",
	"can be inferred", "can be classified",
}

// uiChromePrefixes start lines that belong to the surrounding app
// (navigation, social buttons, statistics) rather than to a question.
var uiChromePrefixes = []string{
	"关注", "点赞", "收藏", "分享", "评论", "回复", "删除", "编辑", "转发",
	"商城", "推荐", "直播", "团购", "首页", "消息", "我", "正确率", "答案",
	"解析", "展开", "周搜", "华图", "公考", "行测", "申论", "国考", "朋友",
	"祝各位", "三验", "精选",
}

// numeralChromePrefixes rule out circled numerals used as badges on buttons
var numeralChromePrefixes = []string{
	"不喜欢", "点赞", "收藏", "分享", "关注", "评论", "回复", "删除", "编辑", "转发",
	"Like", "Share", "Follow", "Comment", "Reply",
}

// ContainsVeryStrongPhrase reports whether text contains one of the
// very strong stem phrases. Matching is case-insensitive for Latin text.
func ContainsVeryStrongPhrase(text string) bool {
	return containsAny(text, VeryStrongStemPhrases)
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
