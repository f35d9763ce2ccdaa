// Package syllable holds the table of valid full-pinyin syllables.
//
// The table is built once at init and is read-only afterwards, so it can be
// shared by any number of sessions without locking. The vowel ü is written
// as "v" after l and n (lv, lve, nv, nve) and as "u" after j, q, x and y.
package syllable

import (
	"sort"
	"strings"
)

const table = `
a ai an ang ao
ba bai ban bang bao bei ben beng bi bian biao bie bin bing bo bu
ca cai can cang cao ce cen ceng ci cong cou cu cuan cui cun cuo
cha chai chan chang chao che chen cheng chi chong chou chu chua chuai chuan chuang chui chun chuo
da dai dan dang dao de dei den deng di dia dian diao die ding diu dong dou du duan dui dun duo
e ei en eng er
fa fan fang fei fen feng fo fou fu
ga gai gan gang gao ge gei gen geng gong gou gu gua guai guan guang gui gun guo
ha hai han hang hao he hei hen heng hong hou hu hua huai huan huang hui hun huo
ji jia jian jiang jiao jie jin jing jiong jiu ju juan jue jun
ka kai kan kang kao ke kei ken keng kong kou ku kua kuai kuan kuang kui kun kuo
la lai lan lang lao le lei leng li lia lian liang liao lie lin ling liu lo long lou lu luan lun luo lv lve
ma mai man mang mao me mei men meng mi mian miao mie min ming miu mo mou mu
na nai nan nang nao ne nei nen neng ni nian niang niao nie nin ning niu nong nou nu nuan nun nuo nv nve
o ou
pa pai pan pang pao pei pen peng pi pian piao pie pin ping po pou pu
qi qia qian qiang qiao qie qin qing qiong qiu qu quan que qun
ran rang rao re ren reng ri rong rou ru rua ruan rui run ruo
sa sai san sang sao se sen seng si song sou su suan sui sun suo
sha shai shan shang shao she shei shen sheng shi shou shu shua shuai shuan shuang shui shun shuo
ta tai tan tang tao te tei teng ti tian tiao tie ting tong tou tu tuan tui tun tuo
wa wai wan wang wei wen weng wo wu
xi xia xian xiang xiao xie xin xing xiong xiu xu xuan xue xun
ya yan yang yao ye yi yin ying yo yong you yu yuan yue yun
za zai zan zang zao ze zei zen zeng zi zong zou zu zuan zui zun zuo
zha zhai zhan zhang zhao zhe zhei zhen zheng zhi zhong zhou zhu zhua zhuai zhuan zhuang zhui zhun zhuo
`

// Initials lists the consonant initials, two-letter ones first so that a
// greedy prefix match picks "zh" before "z".
var Initials = []string{
	"zh", "ch", "sh",
	"b", "p", "m", "f", "d", "t", "n", "l", "g", "k", "h",
	"j", "q", "x", "r", "z", "c", "s", "y", "w",
}

// MaxLen is the length of the longest syllable in the table.
const MaxLen = 6

var (
	valid    map[string]struct{}
	prefixes map[string]struct{}
	all      []string
)

func init() {
	valid = make(map[string]struct{})
	prefixes = make(map[string]struct{})
	for _, s := range strings.Fields(table) {
		valid[s] = struct{}{}
		for i := 1; i <= len(s); i++ {
			prefixes[s[:i]] = struct{}{}
		}
	}
	all = make([]string, 0, len(valid))
	for s := range valid {
		all = append(all, s)
	}
	sort.Strings(all)
}

// Valid reports whether s is a complete pinyin syllable.
func Valid(s string) bool {
	_, ok := valid[s]
	return ok
}

// IsPrefix reports whether s is a non-empty prefix of at least one valid
// syllable. Every valid syllable is also a prefix of itself.
func IsPrefix(s string) bool {
	_, ok := prefixes[s]
	return ok
}

// All returns every valid syllable in lexical order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// Split separates a syllable into its initial consonant and final. Zero
// initial syllables return an empty initial.
func Split(s string) (initial, final string) {
	for _, in := range Initials {
		if strings.HasPrefix(s, in) {
			return in, s[len(in):]
		}
	}
	return "", s
}

// Normalize rewrites a syllable spelling into the canonical form used by the
// table: ü becomes v, and the v after j, q, x and y is written u.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "ü", "v")
	if s == "" {
		return s
	}
	switch s[0] {
	case 'j', 'q', 'x', 'y':
		s = s[:1] + strings.ReplaceAll(s[1:], "v", "u")
	}
	return s
}
