package report

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	coverAsset         = "capa_avalia.png"
	exampleAsset       = "boxplot.jpeg"
	questionnaireAsset = "questionario_disc.pdf"

	defaultPole = "Campus/Polo"
)

var introParagraphs = []string{
	"A Autoavaliação dos Cursos de Graduação a Distância da UFPA (AVALIA EAD) é coordenada pela Comissão Própria de Avaliação (CPA), em parceria com a Diretoria de Avaliação Institucional (DIAVI/PROPLAN).",
	"O AVALIA-EAD foi elaborado com o intuito de conhecer a percepção dos discentes sobre o seu curso de graduação a distância, de modo a contribuir para a implementação de avanços qualitativos nas condições de ensino e aprendizagem.",
	"O formulário do AVALIA-EAD contempla três dimensões inter-relacionadas que correspondem a: Autoavaliação discente (Dimensão 1); Avaliação da Ação Docente (Dimensão 2), com três subdimensões (Atitude Profissional, Gestão Didática e Processo Avaliativo); e Instalações Físicas e Recursos de TI (Dimensão 3).",
	"No presente relatório, a CPA divulga os resultados da aplicação do AVALIA EAD, referente às atividades curriculares desenvolvidas no Período Letivo %s. Os ítens abordados possibilitam avaliar cada atividade curricular realizada no período letivo, com respeito à três Dimensões supracitadas, com base em uma escala de 1 (Insuficiente) a 4 (Excelente). Alguns itens possuem a alternativa Não se Aplica.",
	"Para a análise das respostas dos discentes, foram utilizadas duas representações gráficas principais: gráficos de barras e boxplots. Os gráficos de barras apresentam o percentual de respostas e a média das respostas, tanto por dimensão como por ítem. Já os boxplots mostram a distribuição das médias de avaliação por disciplina/docente. Essa representação permite visualizar a tendência central das avaliações realizadas pelos discentes, bem como identificar possíveis valores atípicos (outliers) em relação ao conjunto geral de respostas, conforme ilustrado na figura a seguir.",
}

// periods maps a survey year to the academic period it evaluated.
var periods = map[string]string{
	"2023": "2023-4",
	"2025": "2025-2",
}

func intro(year string) []string {
	period, ok := periods[year]
	if !ok {
		period = year
	}
	out := make([]string, len(introParagraphs))
	copy(out, introParagraphs)
	out[3] = fmt.Sprintf(out[3], period)
	return out
}

func introTitle(year string) string { return "APRESENTAÇÃO DO RELATÓRIO AVALIA " + year }

func reportTitle(year string) string { return "RELATÓRIO AVALIA " + year }

func reportSubtitle(course, pole string) string {
	if pole == "" {
		pole = defaultPole
	}
	return course + " - " + pole
}

// FileName is the download name of a report. Course and pole come from
// survey data, so path separators and characters that filesystems or the
// Content-Disposition header reject are replaced with "-".
func FileName(year, course, pole string) string {
	name := "relatorio-avalia-" + safeName(year) + "-" + safeName(course)
	if pole != "" {
		name += "-" + safeName(pole)
	}
	return name + ".pdf"
}

var unsafeChars = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

func safeName(s string) string {
	s = unsafeChars.Replace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
