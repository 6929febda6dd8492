package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"screenrate/internal/services/advisor/domain"
	ratingdomain "screenrate/internal/services/rating/domain"
)

const (
	maxSmartActions   = 20
	maxCriticalScenes = 10
	maxAnalyzedScenes = 15
	maxRecsPerDim     = 2
)

// recommendations merges content-aware smart actions with the coarse
// per-scene fallbacks, sorted by impact
func (s *Service) recommendations(scenes []domain.SceneIssue, all []ratingdomain.SceneScore, lang string) []domain.Action {
	actions := smartRecommendations(scenes, all, lang)

	var critical []domain.SceneIssue
	for _, sc := range scenes {
		if sc.Severity == "critical" || sc.Severity == "high" {
			critical = append(critical, sc)
		}
	}
	if len(critical) > maxCriticalScenes {
		critical = critical[:maxCriticalScenes]
	}

	for _, sc := range critical {
		issueDim, issueVal := maxIssue(sc.Issues)

		var actionType, difficulty, changes string
		var impact float64
		switch {
		case issueVal > 0.6:
			actionType, difficulty = "remove_scene", "easy"
			impact = min1(issueVal * 1.2)
			changes = tr(lang, "Remove entire scene", "Удалить сцену полностью")
		case issueVal > 0.3:
			actionType, difficulty = "rewrite_scene", "hard"
			impact = issueVal * 0.9
			changes = tr(lang, "Rewrite scene to reduce problematic content",
				"Переписать сцену, уменьшив проблемный контент")
		default:
			actionType, difficulty = "reduce_content", "medium"
			impact = issueVal * 0.7
			changes = tr(lang, "Remove or tone down specific elements",
				"Убрать или смягчить отдельные элементы")
		}

		recs := sc.Recommendations
		if len(recs) > 2 {
			recs = recs[:2]
		}
		description := fmt.Sprintf(tr(lang, "Scene %d: %s", "Сцена %d: %s"),
			sc.SceneNumber, strings.Join(recs, ", "))

		actions = append(actions, domain.Action{
			ActionType:      actionType,
			SceneID:         sc.SceneID,
			Description:     description,
			ImpactScore:     round3(impact),
			Category:        issueDim,
			SpecificChanges: []string{changes},
			Difficulty:      difficulty,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].ImpactScore > actions[j].ImpactScore
	})
	return actions
}

// maxIssue returns the worst dimension deterministically, breaking value
// ties by name
func maxIssue(issues map[string]float64) (string, float64) {
	var bestDim string
	bestVal := -1.0
	names := make([]string, 0, len(issues))
	for name := range issues {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if issues[name] > bestVal {
			bestDim, bestVal = name, issues[name]
		}
	}
	return bestDim, bestVal
}

// smartRecommendations inspects the actual scene text for each flagged
// dimension and proposes targeted edits
func smartRecommendations(scenes []domain.SceneIssue, all []ratingdomain.SceneScore, lang string) []domain.Action {
	byID := make(map[int]ratingdomain.SceneScore, len(all))
	for _, sc := range all {
		byID[sc.Scene.ID] = sc
	}

	nameToDim := map[string]string{}
	for dim, names := range dimensionNames {
		nameToDim[names[lang]] = dim
	}

	analyzed := scenes
	if len(analyzed) > maxAnalyzedScenes {
		analyzed = analyzed[:maxAnalyzedScenes]
	}

	var actions []domain.Action
	for _, sc := range analyzed {
		data, ok := byID[sc.SceneID]
		if !ok {
			continue
		}

		for _, issue := range sortedIssues(sc.Issues) {
			dim := nameToDim[issue.name]
			if dim == "" {
				continue
			}
			recs := analyzeSceneContent(data.Scene.Body, dim, issue.val, lang)
			if len(recs) > maxRecsPerDim {
				recs = recs[:maxRecsPerDim]
			}
			for _, rec := range recs {
				rec.SceneID = sc.SceneID
				rec.Category = issue.name
				actions = append(actions, rec)
			}
		}
	}

	if len(actions) > maxSmartActions {
		actions = actions[:maxSmartActions]
	}
	return actions
}

type namedIssue struct {
	name string
	val  float64
}

func sortedIssues(issues map[string]float64) []namedIssue {
	out := make([]namedIssue, 0, len(issues))
	for name, val := range issues {
		out = append(out, namedIssue{name, val})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].val != out[j].val {
			return out[i].val > out[j].val
		}
		return out[i].name < out[j].name
	})
	return out
}

var profanityProbe = regexp.MustCompile(`\b(fuck|shit|damn|hell)\w*\b|(бля|хуй|пизд|ебать)`)

var (
	highViolenceWords   = []string{"убивает", "murder", "стреляет", "shoot", "удар", "punch", "бьет", "hit"}
	mediumViolenceWords = []string{"дерутся", "fight", "атакует", "attack", "борьба", "struggle"}
	lowViolenceWords    = []string{"угрожает", "threaten", "спор", "argue"}
	goreWords           = []string{"кровь", "blood", "рана", "wound", "труп", "corpse", "тело", "body"}
	sexWords            = []string{"секс", "sex", "занимаются любовью", "make love", "bed", "кровать"}
	nudityWords         = []string{"голый", "naked", "nude", "обнаженный", "раздевается", "undress"}
	drugWords           = []string{"наркотик", "drug", "кокаин", "cocaine", "героин", "heroin", "алкоголь", "alcohol", "пьет", "drink", "курит", "smoke"}
	childWords          = []string{"ребенок", "child", "дети", "children", "мальчик", "boy", "девочка", "girl", "ребёнок", "kid"}
	dangerWords         = []string{"опасность", "danger", "ранен", "hurt", "испуган", "scared"}
)

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func analyzeSceneContent(content, dim string, severity float64, lang string) []domain.Action {
	var recs []domain.Action
	text := strings.ToLower(content)

	switch dim {
	case "violence":
		hasHigh := containsAnyWord(text, highViolenceWords)
		hasAny := hasHigh || containsAnyWord(text, mediumViolenceWords) || containsAnyWord(text, lowViolenceWords)
		if hasAny {
			if hasHigh && severity > 0.5 {
				recs = append(recs, domain.Action{
					ActionType:  "rewrite_scene",
					Description: tr(lang, "Replace violent action with verbal conflict", "Заменить насилие на словесный конфликт"),
					ImpactScore: 0.85,
					SpecificChanges: []string{tr(lang,
						"Convert physical fight to heated dialogue",
						"Превратить драку в напряженный диалог")},
					Difficulty: "medium",
				})
			} else {
				recs = append(recs, domain.Action{
					ActionType:  "reduce_content",
					Description: tr(lang, "Tone down violent descriptions", "Смягчить описания насилия"),
					ImpactScore: 0.6,
					SpecificChanges: []string{tr(lang,
						"Make violence implied rather than explicit",
						"Сделать насилие косвенным, а не прямым")},
					Difficulty: "easy",
				})
			}
		}
	case "gore":
		if containsAnyWord(text, goreWords) {
			recs = append(recs, domain.Action{
				ActionType:  "modify_dialogue",
				Description: tr(lang, "Remove graphic injury descriptions", "Убрать графические описания ранений"),
				ImpactScore: 0.75,
				SpecificChanges: []string{tr(lang,
					"Cut to black or use off-screen action",
					"Использовать затемнение или действие за кадром")},
				Difficulty: "easy",
			})
		}
	case "sex_act":
		if containsAnyWord(text, sexWords) {
			recs = append(recs, domain.Action{
				ActionType:  "rewrite_scene",
				Description: tr(lang, "Make intimate scene implicit", "Сделать интимную сцену косвенной"),
				ImpactScore: 0.9,
				SpecificChanges: []string{tr(lang,
					"Fade to black or show morning after",
					"Затемнение или показ утра после")},
				Difficulty: "easy",
			})
		}
	case "nudity":
		if containsAnyWord(text, nudityWords) {
			recs = append(recs, domain.Action{
				ActionType:  "modify_dialogue",
				Description: tr(lang, "Remove or obscure nudity", "Убрать или скрыть наготу"),
				ImpactScore: 0.8,
				SpecificChanges: []string{tr(lang,
					"Use strategic camera angles or clothing",
					"Использовать ракурсы камеры или одежду")},
				Difficulty: "easy",
			})
		}
	case "profanity":
		if hits := profanityProbe.FindAllString(text, -1); len(hits) > 0 {
			count := len(hits)
			recs = append(recs, domain.Action{
				ActionType: "modify_dialogue",
				Description: tr(lang,
					fmt.Sprintf("Replace %d profane word(s) with milder alternatives", count),
					fmt.Sprintf("Заменить %d нецензурных слов на более мягкие", count)),
				ImpactScore: min1(0.6 + float64(count)*0.05),
				SpecificChanges: []string{tr(lang,
					"Use euphemisms or remove entirely",
					"Использовать эвфемизмы или убрать полностью")},
				Difficulty: "easy",
			})
		}
	case "drugs":
		if containsAnyWord(text, drugWords) {
			recs = append(recs, domain.Action{
				ActionType:  "reduce_content",
				Description: tr(lang, "Remove or reduce drug/alcohol references", "Убрать или уменьшить упоминания наркотиков/алкоголя"),
				ImpactScore: 0.7,
				SpecificChanges: []string{tr(lang,
					"Show consequences negatively or remove usage",
					"Показать негативные последствия или убрать употребление")},
				Difficulty: "medium",
			})
		}
	case "child_risk":
		if containsAnyWord(text, childWords) && containsAnyWord(text, dangerWords) {
			recs = append(recs, domain.Action{
				ActionType:  "rewrite_scene",
				Description: tr(lang, "Remove children from dangerous situation", "Убрать детей из опасной ситуации"),
				ImpactScore: 0.9,
				SpecificChanges: []string{tr(lang,
					"Replace child character with adult or move to safe location",
					"Заменить ребенка на взрослого или переместить в безопасное место")},
				Difficulty: "hard",
			})
		}
	}

	if severity > 0.7 && len(recs) == 0 {
		recs = append(recs, domain.Action{
			ActionType:  "remove_scene",
			Description: tr(lang, "Consider removing this scene entirely", "Рассмотрите возможность полного удаления сцены"),
			ImpactScore: 0.95,
			SpecificChanges: []string{tr(lang,
				"High severity issue with no easy fix",
				"Высокая серьезность без простого решения")},
			Difficulty: "easy",
		})
	}
	return recs
}

func tr(lang, en, ru string) string {
	if lang == "ru" {
		return ru
	}
	return en
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
