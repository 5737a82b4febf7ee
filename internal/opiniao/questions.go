package opiniao

// Question texts of the student questionnaire, in questionnaire order.
var studentQuestions = []Question{
	{Key: "P.2.1", Text: "Seu conhecimento sobre o projeto pedagógico do seu curso."},
	{Key: "P.2.2", Text: "A pertinência dos conteúdos e temas tratados nas disciplinas cursadas para a formação profissional."},
	{Key: "P.2.3", Text: "A disponibilidade dos professores para atender e orientar fora do horário de aula."},
	{Key: "P.2.4", Text: "A abordagem dos conteúdos transversais ('História e Cultura Afro-Brasileira e Indígena' e 'Políticas de Educação Ambiental') no seu curso."},
	{Key: "P.2.5", Text: "A contextualização e associação dos conteúdos abordados no seu curso à realidade."},
	{Key: "P.2.6", Text: "A divulgação e oportunidades de contatos de atuação relacionadas à formação profissional como estágio, bolsas, etc."},
	{Key: "P.2.7", Text: "A relevância acadêmica, científica e social das atividades de extensão desenvolvidas pela UFPA."},
	{Key: "P.2.8", Text: "A vinculação das atividades de extensão à formação acadêmica."},
	{Key: "P.2.9", Text: "Oportunidades de participação discente em atividades de extensão disponibilizados pela UFPA."},
	{Key: "P.2.10", Text: "Oportunidades de participação discente em atividades de pesquisa disponibilizados pela UFPA."},
	{Key: "P.2.11", Text: "A integração das ações de ensino, pesquisa e extensão no âmbito do seu curso."},
	{Key: "P.3.12", Text: "As atividades/ações de inclusão social (políticas afirmativas) desenvolvidas pela UFPA."},
	{Key: "P.3.13", Text: "As ações voltadas a defesa do meio ambiente desenvolvidas pela UFPA."},
	{Key: "P.3.14", Text: "As atividades/ações em defesa do patrimônio cultural e da produção artística desenvolvidas pela UFPA."},
	{Key: "P.4.15", Text: "A disponibilização de informações pelos canais da UFPA (web, redes, etc) à comunidade interna."},
	{Key: "P.4.16", Text: "A divulgação das ações desenvolvidas pela UFPA para a sociedade (portal da UFPA, redes sociais, eventos e outros veículos de comunicação)."},
	{Key: "P.4.17", Text: "O atendimento das necessidades acadêmicas nos ambientes virtuais da instituição (SIGAA, Sagitta, Biblioteca Central, etc)."},
	{Key: "P.6.18", Text: "A representatividade discente nos órgãos de gestão da instituição (conselhos superiores, institutos, faculdades)."},
	{Key: "P.7.19", Text: "Condições de acesso para pessoas com deficiência e/ou mobilidade reduzida."},
	{Key: "P.7.20", Text: "A adequação dos ambientes de ensino para o atendimento de estudantes com deficiência."},
	{Key: "P.7.21", Text: "A manutenção e a conservação do campus/instituto em que você estuda."},
	{Key: "P.7.22", Text: "A quantidade e a qualidade dos laboratórios didáticos."},
	{Key: "P.7.23", Text: "A quantidade e a qualidade dos equipamentos e materiais destinados às atividades práticas."},
	{Key: "P.7.24", Text: "O uso adequado de recursos audiovisuais e tecnológicos no seu curso."},
	{Key: "P.7.25", Text: "A qualidade dos serviços prestados aos usuários pelas Bibliotecas (empréstimos, reservas, orientações, treinamentos, etc)."},
	{Key: "P.7.26", Text: "A quantidade e a qualidade do acervo bibliográfico, físico e virtual, disponível para o seu curso."},
	{Key: "P.7.27", Text: "Os espaços de convivência para atividades culturais, desportivas e de lazer na UFPA."},
	{Key: "P.8.28", Text: "A divulgação do resultado das avaliações internas (AVALIA) e externas do curso para os estudantes."},
	{Key: "P.8.29", Text: "Os resultados da Avaliação Institucional são divulgados para a comunidade acadêmica."},
	{Key: "P.8.30", Text: "Medidas adotadas pela gestão do curso com base nos resultados da avaliação."},
	{Key: "P.9.31", Text: "A divulgação dos programas e serviços para atendimento ao discente (acolhimento, permanência, monitoria, acessibilidade, assistência, RU, etc)."},
	{Key: "P.9.32", Text: "O atendimento, por esses serviços, das necessidades específicas dos estudantes."},
	{Key: "P.9.33", Text: "Nível de satisfação com o seu curso."},
	{Key: "P.9.34", Text: "Nível de satisfação com a UFPA."},
}

// Question texts of the staff questionnaire, in questionnaire order.
var staffQuestions = []Question{
	{Key: "P.1.1", Text: "Adequação da missão da UFPA ( “Ser reconhecida nacionalmente e internacionalmente pela qualidade no ensino, na produção de conhecimento e em práticas sustentáveis, criativas e inovadoras integradas à sociedade”) com sua finalidade, compromisso, vocação e inserção regional e/ou nacional."},
	{Key: "P.1.2", Text: "A contribuição das ações implementadas pela instituição para o alcance da missão institucional"},
	{Key: "P.1.3", Text: "Seu conhecimento sobre o Plano de Desenvolvimento Institucional (PDI) da UFPA."},
	{Key: "P.3.4", Text: "O comprometimento da UFPA com a promoção do acesso à bens e serviços públicos de forma universal, equitativa e eficiente"},
	{Key: "P.3.5", Text: "A promoção do bem-estar social, da democracia, do respeito à diferença e de solidariedade pela UFPA."},
	{Key: "P.3.6", Text: "Sua contribuição, enquanto servidor, para a responsabilidade social da UFPA, equidade racial, valorização e respeito à diversidade, enfrentamento à discriminação, assédios e outras formas de violência."},
	{Key: "P.4.7", Text: "Estabelecimento de estratégias e ferramentas para aproximação e compartilhamento de conhecimento com a sociedade."},
	{Key: "P.4.8", Text: "Ações efetivas da UFPA no compartilhamento do saber que produz e das informações que detém com a sociedade."},
	{Key: "P.4.9", Text: "Qualidade das informações divulgadas nos canais internos da Instituição"},
	{Key: "P.4.10", Text: "Qualidade das informações divulgadas nos canais externos da Instituição"},
	{Key: "P.4.11", Text: "O nível de preocupação da UFPA com relação a inclusão social e os problemas do entorno regional."},
	{Key: "P.5.12", Text: "Facilidade de acesso às políticas e aos programas de formação, aperfeiçoamento e capacitação de pessoal"},
	{Key: "P.5.13", Text: "Qualidade das políticas e programas de formação, aperfeiçoamento e capacitação de pessoal."},
	{Key: "P.5.14", Text: "Comprometimento da UFPA com o zelo à saúde ocupacional do servidor, considerando-se o bem-estar físico, mental e social."},
	{Key: "P.5.15", Text: "Satisfação no ambiente de trabalho, considerando-se o relacionamento interpessoal, respeito às diferenças, valorização e a progressão profissional."},
	{Key: "P.6.16", Text: "Representatividade dos servidores técnicos administrativos nos órgãos colegiados"},
	{Key: "P.6.17", Text: "Adequação da estrutura de gestão para cumprir os objetivos e projetos institucionais"},
	{Key: "P.7.18", Text: "A conservação e limpeza do campus/unidade em que você trabalha"},
	{Key: "P.7.19", Text: "A qualidade dos serviços e das instalações de apoio ao servidor (banheiros, ambiente externo, segurança, alimentação) na UFPA."},
	{Key: "P.7.20", Text: "Adequação da infraestrutura para efetiva execução das atividades acadêmicas de formação, de produção e disseminação de conhecimentos e demais finalidades da UFPA."},
	{Key: "P.7.21", Text: "Quantidade e qualidade das instalações gerais para a prática de esportes, atividades culturais e de lazer, e espaços de convivência."},
	{Key: "P.7.22", Text: "Adequação das instalações para assegurar a acessibilidade física das pessoas com deficiência e com mobilidade reduzida"},
	{Key: "P.8.23", Text: "Implantação e funcionamento da Comissão Própria de Avaliação."},
	{Key: "P.8.24", Text: "Acesso aos resultados de desempenho da Unidade frente ao seu planejamento (PDU)"},
	{Key: "P.8.25", Text: "Participação no processo de avaliação do planejamento da Unidade"},
	{Key: "P.8.26", Text: "Conhecimento sobre as estruturas de gestão e ferramentas de planejamento, acompanhamento, avaliação e medição de desempenho da Instituição."},
	{Key: "P.8.27", Text: "Conhecimento sobre as estruturas de Planejamento e Avaliação, tais como: Pró-Reitoria de Planejamento e Desenvolvimento Institucional (PROPLAN), Comissão Própria de Avaliação, Comitê de Governança, Riscos e Controles (CGRC), etc."},
	{Key: "P.8.28", Text: "Disponibilidade à comunidade acadêmica das informações, análises e resultados do planejamento organizacional, autoavaliação e avaliações externas"},
}
