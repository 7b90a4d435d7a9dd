package battleinfo

import (
	"fmt"
	"html"
	"strings"

	"showdown-battleinfo/game"
	"showdown-battleinfo/preview"
)

// Render draws the menu's current page as an HTML fragment for the stream.
func Render(m *Menu, est *preview.Estimator, percentile int) string {
	var sb strings.Builder
	s := m.State()

	sb.WriteString("<div class='battle-info'>")
	sb.WriteString(fmt.Sprintf("<div class='turn'>Turn %d</div>", s.Turn))
	if s.Weather != game.WeatherNone {
		sb.WriteString(fmt.Sprintf("<div><b>Weather:</b> %s</div>", html.EscapeString(titleCase(s.Weather))))
	}

	switch m.Page() {
	case PageField:
		renderField(&sb, BuildField(s))
	case PageMon:
		if v, ok := BuildMon(s, m.Selected()); ok {
			renderMon(&sb, v)
		} else {
			sb.WriteString("<p>No data</p>")
		}
	case PageAIDamage:
		renderDamage(&sb, BuildDamage(s, est, percentile))
		renderSuggestion(&sb, s, est, percentile)
	case PageClosed:
		sb.WriteString("<p class='closed'>Battle Info closed.</p>")
	}

	sb.WriteString("</div>")
	return sb.String()
}

func renderField(sb *strings.Builder, v FieldView) {
	sb.WriteString("<h3>Battle Info</h3><table class='field'>")
	sb.WriteString(fmt.Sprintf("<tr><th></th><th>%s</th><th>%s</th></tr>", v.PlayerLabel, v.FoeLabel))
	for _, r := range v.Timers {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%d</td></tr>", r.Name, r.Player, r.Foe))
	}
	sb.WriteString(fmt.Sprintf("<tr><td>Trick Room</td><td colspan='2'>%d</td></tr>", v.TrickRoom))
	if v.Terrain == dash {
		sb.WriteString("<tr><td>Terrain</td><td colspan='2'>0</td></tr>")
	} else {
		sb.WriteString(fmt.Sprintf("<tr><td>Terrain</td><td colspan='2'>%s %d</td></tr>", v.Terrain, v.TerrainTimer))
	}
	sb.WriteString("</table>")
}

func renderMon(sb *strings.Builder, v MonView) {
	sb.WriteString(fmt.Sprintf("<h3>%s</h3>", html.EscapeString(v.Name)))
	sb.WriteString(fmt.Sprintf("<div><b>Ability</b> %s</div>", html.EscapeString(v.Ability)))
	sb.WriteString(fmt.Sprintf("<div><b>Held Item</b> %s</div>", html.EscapeString(v.Item)))
	sb.WriteString("<ul class='moves'>")
	for _, m := range v.Moves {
		if m.Empty {
			sb.WriteString("<li>-</li>")
			continue
		}
		sb.WriteString(fmt.Sprintf("<li>%s <span class='pp'>PP %d/%d</span></li>", html.EscapeString(m.Name), m.PP, m.MaxPP))
	}
	sb.WriteString("</ul><table class='stages'>")
	for _, st := range v.Stages {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", st.Stat, st.Text))
	}
	sb.WriteString("</table>")
}

func renderDamage(sb *strings.Builder, v DamageView) {
	sb.WriteString("<h3>AI 8th Move Damage Roll</h3>")
	if v.Empty {
		sb.WriteString("<p>" + NoAIDamage + "</p>")
		return
	}
	if !v.Doubles {
		row := v.Rows[0]
		sb.WriteString(fmt.Sprintf("<div>%s &rarr; %s</div><table class='damage'>",
			html.EscapeString(v.Attackers[0]), html.EscapeString(v.Defenders[0])))
		for _, c := range row.Cells {
			sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", moveLabel(c), damageLabel(c)))
		}
		sb.WriteString("</table>")
		return
	}

	sb.WriteString("<table class='damage doubles'><tr><th></th><th></th>")
	for _, d := range v.Defenders {
		sb.WriteString("<th>" + html.EscapeString(d) + "</th>")
	}
	sb.WriteString("</tr>")
	nd := len(v.Defenders)
	for ai, name := range v.Attackers {
		rows := v.Rows[ai*nd : (ai+1)*nd]
		for mi := range rows[0].Cells {
			sb.WriteString("<tr>")
			if mi == 0 {
				sb.WriteString(fmt.Sprintf("<th rowspan='%d'>%s</th>", len(rows[0].Cells), html.EscapeString(name)))
			}
			sb.WriteString("<td>" + moveLabel(rows[0].Cells[mi]) + "</td>")
			for _, r := range rows {
				sb.WriteString("<td>" + damageLabel(r.Cells[mi]) + "</td>")
			}
			sb.WriteString("</tr>")
		}
	}
	sb.WriteString("</table>")
}

func moveLabel(c preview.Cell) string {
	if c.Move == "" {
		return dash
	}
	return html.EscapeString(c.Move)
}

func damageLabel(c preview.Cell) string {
	if c.Dash {
		return dash
	}
	return fmt.Sprintf("%d", c.Damage)
}

// renderSuggestion shows the player's strongest reply against the first
// living foe.
func renderSuggestion(sb *strings.Builder, s *game.BattleState, est *preview.Estimator, percentile int) {
	atk := s.FirstLivingBattlerOnSide(game.SidePlayer)
	def := s.FirstLivingBattlerOnSide(game.SideOpponent)
	if atk == game.NoBattler || def == game.NoBattler {
		return
	}
	sb.WriteString("<div class='suggestion'>")
	if move, dmg, ok := BestMove(s, est, atk, def, percentile); ok {
		sb.WriteString(fmt.Sprintf("Best move for %s: <b>%s</b> (%d)", html.EscapeString(s.Battler(atk).Name), html.EscapeString(move), dmg))
	} else {
		sb.WriteString("No known damaging moves.")
	}
	sb.WriteString("</div>")
}
